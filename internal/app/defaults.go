package app

// defaults apply when neither the config file nor the environment sets a key.
var defaults = map[string]any{
	"app.node_id":                                 -1,
	"app.server.http.address":                     ":8080",
	"app.server.http.read_timeout_seconds":        10,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       10,
	"app.server.http.idle_timeout_seconds":        60,
	"app.server.max_goroutine":                    4,

	"database.driver": "postgres",

	"hash.password.algorithm": "bcrypt",
	"hash.bcrypt.cost":        10,

	"modules.recovery.enabled":                    true,
	"modules.recovery.otp_ttl_minutes":            10,
	"modules.recovery.otp_digits":                 6,
	"modules.recovery.otp_delivery":               "direct",
	"modules.recovery.password_min_length":        5,
	"modules.recovery.password_min_strength":      "Weak",
	"modules.recovery.identity_cache_ttl_seconds": 300,
	"modules.recovery.purge_interval_seconds":     300,

	"instrument.service_name":            "gorecover",
	"instrument.trace_sample_ratio":      1.0,
	"instrument.metric_interval_seconds": 60,
	"instrument.log_level":               "info",
}
