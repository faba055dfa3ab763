package envvar

const (
	// SupertonicEnv is the environment variable used to determine the environment
	SupertonicEnv = "SUPERTONIC_ENV"

	// SupertonicModelPath overrides the model root when the host configuration leaves it unset
	SupertonicModelPath = "SUPERTONIC_MODEL_PATH"

	// SupertonicLogLevel is the environment variable used to set the minimum log level
	SupertonicLogLevel = "SUPERTONIC_LOG_LEVEL"

	// SupertonicOnnxRuntimeLib points at the onnxruntime shared library
	SupertonicOnnxRuntimeLib = "SUPERTONIC_ONNXRUNTIME_LIB"
)
