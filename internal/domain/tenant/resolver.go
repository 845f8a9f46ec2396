package tenant

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ConfigDir is the directory, relative to the base directory, holding the
// environment files.
const ConfigDir = "config"

var envNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Resolver loads <env>.json and selects a tenant. It keeps no state between
// calls, so every resolution sees the file as it is on disk.
type Resolver struct {
	baseDir  string
	logger   *zap.Logger
	validate *validator.Validate
}

// NewResolver creates a resolver reading from <baseDir>/config.
func NewResolver(baseDir string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		baseDir:  baseDir,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Path returns the config file path for env.
func (r *Resolver) Path(env string) string {
	return filepath.Join(r.baseDir, ConfigDir, env+".json")
}

// Load reads and validates the document for env.
func (r *Resolver) Load(env string) (*DesktopConfig, error) {
	if !envNamePattern.MatchString(env) {
		return nil, fmt.Errorf("%w: invalid environment name %q", ErrConfigRead, env)
	}

	path := r.Path(env)
	r.logger.Info("Loading config", zap.String("path", path))

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigRead, path, err)
	}

	var cfg DesktopConfig
	if err := sonic.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := r.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	return &cfg, nil
}

// Resolve loads the document for env and selects a tenant, honouring
// override when it names an existing tenant.
func (r *Resolver) Resolve(env, override string) (*Resolved, error) {
	cfg, err := r.Load(env)
	if err != nil {
		return nil, err
	}

	resolved, err := Select(cfg, override)
	if err != nil {
		return nil, err
	}

	switch resolved.Source {
	case SourceFallback:
		r.logger.Warn("Falling back to first tenant by id",
			zap.String("override", override),
			zap.String("default_tenant", cfg.DefaultTenant),
			zap.String("tenant", resolved.TenantID),
		)
	default:
		if override != "" && resolved.Source != SourceOverride {
			r.logger.Warn("Tenant override not found, using default",
				zap.String("override", override),
				zap.String("tenant", resolved.TenantID),
			)
		}
	}

	return resolved, nil
}

// Select applies the tenant selection order to an already loaded document.
func Select(cfg *DesktopConfig, override string) (*Resolved, error) {
	if len(cfg.Tenants) == 0 {
		return nil, ErrNoTenant
	}

	id, source := pick(cfg, override)
	t := cfg.Tenants[id]

	resolved := &Resolved{
		Env:        cfg.Env,
		TenantID:   id,
		AppURL:     t.AppURL,
		TenantName: id,
		Source:     source,
	}
	if t.Name != nil && *t.Name != "" {
		resolved.TenantName = *t.Name
	}
	if cfg.Auth != nil && cfg.Auth.TenantClaim != nil {
		resolved.TenantClaim = *cfg.Auth.TenantClaim
	}
	return resolved, nil
}

func pick(cfg *DesktopConfig, override string) (string, Source) {
	if override != "" {
		if _, ok := cfg.Tenants[override]; ok {
			return override, SourceOverride
		}
	}
	if _, ok := cfg.Tenants[cfg.DefaultTenant]; ok && cfg.DefaultTenant != "" {
		return cfg.DefaultTenant, SourceDefault
	}

	ids := make([]string, 0, len(cfg.Tenants))
	for id := range cfg.Tenants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0], SourceFallback
}
