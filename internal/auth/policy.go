package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-management-service/internal/domain"
	apperrors "github.com/spec-kit/user-management-service/pkg/util"
)

// Requirement describes what a matched route demands of the caller.
type Requirement int

const (
	// RequirePublic lets the request through regardless of authentication.
	RequirePublic Requirement = iota
	// RequireAuthenticated demands any principal.
	RequireAuthenticated
	// RequireRoles demands a principal holding one of the listed roles.
	RequireRoles
)

// Rule maps a path pattern to an access requirement. Patterns are exact
// paths or a prefix followed by "/**".
type Rule struct {
	Pattern     string
	Requirement Requirement
	Roles       []domain.Role
}

// AccessPolicy is an ordered rule set evaluated top-down; the first matching
// rule wins. Rules are fixed at startup and shared read-only across requests.
type AccessPolicy struct {
	rules []Rule
}

// NewAccessPolicy builds a policy from ordered rules.
func NewAccessPolicy(rules []Rule) *AccessPolicy {
	return &AccessPolicy{rules: rules}
}

// DefaultRules returns the service's access table. Registration and
// authentication are public, the health group is the public diagnostic
// exemption, and everything unmatched still requires authentication. The
// /admin prefix is reserved for ADMIN even though no such routes ship yet.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/authenticate", Requirement: RequirePublic},
		{Pattern: "/users/register", Requirement: RequirePublic},
		{Pattern: "/health/**", Requirement: RequirePublic},
		{Pattern: "/users/**", Requirement: RequireRoles, Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}},
		{Pattern: "/admin/**", Requirement: RequireRoles, Roles: []domain.Role{domain.RoleAdmin}},
		{Pattern: "/**", Requirement: RequireAuthenticated},
	}
}

// Enforce returns the middleware that applies the policy to each request
// using the principal the authenticator populated.
func (p *AccessPolicy) Enforce() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := p.decide(c.Path(), principal); err != nil {
			return err
		}
		return c.Next()
	}
}

func (p *AccessPolicy) decide(path string, principal *Principal) error {
	rule := p.match(path)
	if rule == nil || rule.Requirement == RequirePublic {
		return nil
	}

	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	if rule.Requirement == RequireRoles {
		for _, role := range rule.Roles {
			if principal.Role == role {
				return nil
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}

func (p *AccessPolicy) match(path string) *Rule {
	for i := range p.rules {
		if matchPattern(p.rules[i].Pattern, path) {
			return &p.rules[i]
		}
	}
	return nil
}

func matchPattern(pattern, path string) bool {
	if base, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return path == pattern
}
