//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package config

// AppEnv selects the runtime environment profile
// ENUM(local,production,development,testing)
type AppEnv string
