package config

import "os"

func IsDebug() bool {
	return os.Getenv("NOVA_DEBUG") == "1"
}
