package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/etnz/komorebi/config"
	"github.com/rs/zerolog/log"
)

// EnvConfigFile passes the configuration file to extensions.
const EnvConfigFile = "KOMOREBI_CONFIG"

// RunExtension attempts to find and execute an external kmb-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The extension receives the resolved configuration as environment
// variables, so it opens the same store as kmb would.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "kmb-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("command", externalCmdName).Msg("no extension in PATH")
		return false, 0
	}

	env, err := extensionEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), env...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the environment describing the resolved configuration.
func extensionEnv() ([]string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return []string{
		EnvConfigFile + "=" + *configFile,
		config.EnvStore + "=" + cfg.Store.Path,
		config.EnvDriver + "=" + cfg.Store.Driver,
		config.EnvLogLevel + "=" + cfg.Logging.Level,
	}, nil
}
