package tenant

// DesktopConfig is the document stored in <env>.json. It is immutable once
// loaded.
type DesktopConfig struct {
	Env           string                  `json:"env" validate:"required"`
	DefaultTenant string                  `json:"defaultTenant"`
	Tenants       map[string]TenantConfig `json:"tenants" validate:"required,dive"`
	Auth          *AuthClaims             `json:"keycloak,omitempty"`
}

// TenantConfig describes one deployment the shell can point the embedded
// application at.
type TenantConfig struct {
	AppURL string  `json:"appUrl" validate:"required"`
	Name   *string `json:"name,omitempty"`
}

// AuthClaims carries optional identity-provider settings.
type AuthClaims struct {
	TenantClaim *string `json:"tenantClaim,omitempty"`
}

// Source records which selection rule picked the tenant.
type Source string

const (
	SourceOverride Source = "override"
	SourceDefault  Source = "default"
	SourceFallback Source = "fallback"
)

// Resolved is the answer to getConfig.
type Resolved struct {
	Env         string `json:"env"`
	TenantID    string `json:"tenantId"`
	AppURL      string `json:"appUrl"`
	TenantName  string `json:"tenantName"`
	TenantClaim string `json:"tenantClaim,omitempty"`
	Source      Source `json:"-"`
}
