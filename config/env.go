package config

// Known environment names.
const (
	Development = "development"
	Test        = "test"
	Production  = "production"
)

// IsProduction reports whether the configured environment is production.
func IsProduction(env string) bool {
	return env == Production
}

// IsDevelopment reports whether the configured environment is development.
// Unknown environments are treated as development.
func IsDevelopment(env string) bool {
	return env != Production && env != Test
}
