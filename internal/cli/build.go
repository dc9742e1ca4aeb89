package cli

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/mspdash/internal/config"
	"github.com/JonMunkholm/mspdash/internal/core"
	"github.com/JonMunkholm/mspdash/internal/logging"
)

// loadRules returns the rule table named by cfg, or the built-in one.
func loadRules(ctx context.Context, cfg *config.Config) (*core.RuleSet, error) {
	if cfg.Rules.File == "" {
		return core.DefaultRules(), nil
	}

	rules, err := core.LoadRules(cfg.Rules.File)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("client rules loaded",
		"file", cfg.Rules.File,
		"rules", len(rules.Rules()),
	)
	return rules, nil
}

func runBuild(ctx context.Context, cfg *config.Config) (core.Summary, error) {
	rules, err := loadRules(ctx, cfg)
	if err != nil {
		return core.Summary{}, err
	}

	service, err := core.NewService(core.Options{
		Dir:             cfg.Data.Dir,
		UserFilePattern: cfg.Data.UserFilePattern,
		UserFileSuffix:  cfg.Data.UserFileSuffix,
		DeviceFile:      cfg.Data.DeviceFile,
		OutputPath:      cfg.Output.Path,
		Write: core.WriteOptions{
			Variable: cfg.Output.Variable,
			Indent:   cfg.Output.Indent,
		},
		Rules: rules,
	})
	if err != nil {
		return core.Summary{}, fmt.Errorf("create service: %w", err)
	}

	return service.Run(ctx)
}
