package config

import "os"

func IsDebug() bool {
	return os.Getenv("GTM_DEBUG") == "1"
}
