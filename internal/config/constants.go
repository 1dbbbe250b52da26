package config

// Application constants shared by every binary in the module.
const (
	AppName    = "signalcli"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "SIGNAL"

	// DefaultConfigFile is the YAML overlay searched for in the working
	// directory when no explicit path is given.
	DefaultConfigFile = "config.yaml"

	// Canonical base names of the three intermediate input tables. Loaders
	// probe <name>.csv first, then <name>.xlsx.
	MasterTableName        = "SignalMasterTable"
	CRSPTableName          = "monthlyCRSP"
	ShortInterestTableName = "monthlyShortInterest"

	// Directory layout under the data directory.
	IntermediateDirName = "intermediate"
	PredictorsDirName   = "predictors"

	// DefaultLogFileName is the log file created under the logs directory.
	DefaultLogFileName = "signalcli.log"
)
