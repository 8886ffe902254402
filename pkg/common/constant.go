package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeySMDDBType string = "SMD_DB_TYPE"
	EnvKeySMDDbPath string = "SMD_DB_PATH"

	EnvKeySMDHttpHostPort string = "SMD_HTTP_HOST_PORT"
	EnvKeySMDGrpcHostPort string = "SMD_GRPC_HOST_PORT"

	EnvKeySMDDefaultRate  string = "SMD_DEFAULT_RATE"
	EnvKeySMDDefaultBurst string = "SMD_DEFAULT_BURST"
	EnvKeySMDOfflineAfter string = "SMD_OFFLINE_AFTER"

	EnvKeySMDSimulation           string = "SMD_SIMULATION"
	EnvKeySMDSimDevices           string = "SMD_SIM_DEVICES"
	EnvKeySMDSimSeed              string = "SMD_SIM_SEED"
	EnvKeySMDSimIntakeInterval    string = "SMD_SIM_INTAKE_INTERVAL"
	EnvKeySMDSimHeartbeatInterval string = "SMD_SIM_HEARTBEAT_INTERVAL"
	EnvKeySMDSimErrorInterval     string = "SMD_SIM_ERROR_INTERVAL"

	EnvKeySMDLogDir string = "SMD_LOG_DIR"

	LoggerNameEventBus      string = "event_bus"
	LoggerNameSimulator     string = "simulator"
	LoggerNameDispenserCore string = "dispenser_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"

	LoggerFieldCategory       string = "category"
	LoggerFieldTopic          string = "topic"
	LoggerFieldGenerator      string = "generator"
	LoggerCategoryIntake      string = "intake"
	LoggerCategoryHeartbeat   string = "heartbeat"
	LoggerCategoryFault       string = "fault"
	LoggerCategoryCommand     string = "command"
	LoggerCategoryInventory   string = "inventory"
	LoggerCategorySubscribers string = "subscribers"
)
