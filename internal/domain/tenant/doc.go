// Package tenant resolves the per-environment, per-tenant desktop
// configuration.
//
// The configuration lives in <baseDir>/config/<env>.json, where baseDir is
// the executable directory in production. A resolution always yields
// exactly one tenant or fails with one of ErrConfigRead, ErrConfigParse or
// ErrNoTenant.
//
// Tenant selection order:
//  1. the explicit override, when it names an existing tenant
//  2. defaultTenant, when it names an existing tenant
//  3. the tenant with the lexicographically smallest id
package tenant
