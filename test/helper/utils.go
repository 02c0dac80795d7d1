package helper

import (
	"os"
)

func SetEnvironments(envs map[string]string) {
	for name, value := range envs {
		if err := os.Setenv(name, value); err != nil {
			panic(err)
		}
	}
}

func ClearEnvironments(names ...string) {
	for _, name := range names {
		_ = os.Unsetenv(name)
	}
}
