package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mlopsaudit/internal/config"
	"mlopsaudit/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var cfg = config.New()

var configFile string

var rootCmd = &cobra.Command{
	Use:   "mlopsaudit",
	Short: "Audit ML repositories for MLOps completeness",
	Long: `mlopsaudit scans a machine learning repository for standard MLOps artifacts
(data folders, training code, Docker files, CI/CD, experiment tracking, tests,
dependency pins, data versioning) and reports a completeness score.

mlopsaudit never runs the code it scans. The optional fix command drafts missing
artifacts with a text generation model.

Examples:
	# Show available commands and global flags
	mlopsaudit --help

	# Audit a local checkout
	mlopsaudit audit ./my-model

	# Audit a GitHub repository with the weighted checklist
	mlopsaudit audit acme/churn-model --strategy weighted --report audit.md

	# List checks
	mlopsaudit checks list

	# Print build info
	mlopsaudit version

Configuration:
	Flags win over MLOPSAUDIT_* environment variables, which win over
	.mlopsaudit.yaml (current directory, then $HOME). A .env file in the
	current directory is loaded first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfigSources(cmd, cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call and full error details)")
	rootCmd.PersistentFlags().StringVar(&configFile, flags.FlagConfig, "", "Config file (default: .mlopsaudit.yaml in . or $HOME)")
}

// newViper reads the config file and MLOPSAUDIT_* env vars. A missing
// config file is not an error.
func newViper(file string) (*viper.Viper, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".mlopsaudit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("MLOPSAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// loadConfigSources layers .env, the config file and env vars under the
// command's flags: only flags the user did not set are filled in.
func loadConfigSources(cmd *cobra.Command, c *config.Config) error {
	_ = godotenv.Load()

	v, err := newViper(configFile)
	if err != nil {
		return err
	}
	if err := applyViper(cmd.Flags(), v); err != nil {
		return err
	}

	c.Source.GitHubToken = v.GetString(flags.KeyGitHubToken)
	c.Store.S3AccessKey = v.GetString(flags.KeyS3AccessKey)
	c.Store.S3SecretKey = v.GetString(flags.KeyS3SecretKey)
	c.LLM.APIKey = v.GetString(flags.KeyGeminiAPIKey)
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return nil
}

func applyViper(fs *pflag.FlagSet, v *viper.Viper) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == flags.FlagConfig || !v.IsSet(f.Name) {
			return
		}
		if err := fs.Set(f.Name, viperString(v.Get(f.Name))); err != nil {
			errs = append(errs, fmt.Errorf("config value for %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// viperString renders a config value the way the flag parser expects.
func viperString(val any) string {
	switch t := val.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
