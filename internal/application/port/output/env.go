package output

type EnvPort interface {
	Get(key string) string
	GetDefault(key string, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int
}
