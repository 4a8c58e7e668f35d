package config

// Variable is one hard-configured extraction target.
type Variable struct {
	// Name identifies the variable on the command line.
	Name string

	// Dataset and Band address the remote collection.
	Dataset string
	Band    string

	// ResolutionDays is the aggregation window length.
	ResolutionDays int

	// ScaleMeters is the nominal pixel scale of the dataset, used when
	// reducing a window to one value.
	ScaleMeters float64

	// OutputFile is the file written under the output directory.
	OutputFile string
}

// Registry of the surveyed variables, in run order.
var variables = []Variable{
	{
		Name:           "ndvi",
		Dataset:        "MODIS/006/MOD13A2",
		Band:           "NDVI",
		ResolutionDays: 16,
		ScaleMeters:    1000,
		OutputFile:     "sundarban_ndvi.csv",
	},
	{
		Name:           "temperature",
		Dataset:        "ECMWF/ERA5/DAILY",
		Band:           "mean_2m_air_temperature",
		ResolutionDays: 16,
		ScaleMeters:    27830,
		OutputFile:     "temperature_data.csv",
	},
	{
		Name:           "precipitation",
		Dataset:        "ECMWF/ERA5/DAILY",
		Band:           "total_precipitation",
		ResolutionDays: 16,
		ScaleMeters:    27830,
		OutputFile:     "precipitation_data.csv",
	},
	{
		Name:           "sea-surface",
		Dataset:        "HYCOM/sea_surface_elevation",
		Band:           "surface_elevation",
		ResolutionDays: 16,
		ScaleMeters:    8905.6,
		OutputFile:     "sea_surface_anomaly_data.csv",
	},
}

// Variables returns the registry in run order.
func Variables() []Variable {
	out := make([]Variable, len(variables))
	copy(out, variables)
	return out
}

// VariableByName looks up one registry entry by its command-line name.
func VariableByName(name string) (Variable, bool) {
	for _, v := range variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
