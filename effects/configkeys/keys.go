package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigEffectPrefix = ConfigPrefix + delimiter + "effect"

	ConfigEffectLogPrefix   = ConfigEffectPrefix + delimiter + "log"
	ConfigEffectLogLevel    = ConfigEffectLogPrefix + delimiter + "level"
	ConfigEffectLogEncoding = ConfigEffectLogPrefix + delimiter + "encoding"

	ConfigEffectLogHandlerPrefix     = ConfigEffectLogPrefix + delimiter + "handler"
	ConfigEffectLogHandlerBufferSize = ConfigEffectLogHandlerPrefix + delimiter + "buffer_size"

	ConfigAnalyticsPrefix = ConfigPrefix + delimiter + "analytics"

	ConfigAnalyticsAsyncPrefix     = ConfigAnalyticsPrefix + delimiter + "async"
	ConfigAnalyticsAsyncBufferSize = ConfigAnalyticsAsyncPrefix + delimiter + "buffer_size"
	ConfigAnalyticsAsyncNumWorkers = ConfigAnalyticsAsyncPrefix + delimiter + "num_workers"

	ConfigAnalyticsSinksPrefix  = ConfigAnalyticsPrefix + delimiter + "sinks"
	ConfigAnalyticsSinksConsole = ConfigAnalyticsSinksPrefix + delimiter + "console"
	ConfigAnalyticsSinksZap     = ConfigAnalyticsSinksPrefix + delimiter + "zap"

	ConfigAnalyticsPrometheusPrefix    = ConfigAnalyticsSinksPrefix + delimiter + "prometheus"
	ConfigAnalyticsPrometheusEnabled   = ConfigAnalyticsPrometheusPrefix + delimiter + "enabled"
	ConfigAnalyticsPrometheusNamespace = ConfigAnalyticsPrometheusPrefix + delimiter + "namespace"

	ConfigAnalyticsNATSPrefix  = ConfigAnalyticsSinksPrefix + delimiter + "nats"
	ConfigAnalyticsNATSEnabled = ConfigAnalyticsNATSPrefix + delimiter + "enabled"
	ConfigAnalyticsNATSURL     = ConfigAnalyticsNATSPrefix + delimiter + "url"
	ConfigAnalyticsNATSSubject = ConfigAnalyticsNATSPrefix + delimiter + "subject"
)
