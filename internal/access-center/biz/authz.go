package biz

import (
	"context"
	"sort"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/access-center/internal/access-center/store"
	"github.com/kart-io/access-center/internal/model"
	"github.com/kart-io/access-center/pkg/authz/rbac"
	"github.com/kart-io/access-center/pkg/errors"
)

// AuthzService resolves the complete authorization context of a user:
// roles, distinct permission codes, and the two-level menu tree. It
// implements rbac.Resolver so resolved contexts can sit behind a
// ContextCache.
type AuthzService struct {
	store store.Factory
}

// NewAuthzService creates a new AuthzService.
func NewAuthzService(store store.Factory) *AuthzService {
	return &AuthzService{store: store}
}

var _ rbac.Resolver = (*AuthzService)(nil)

// Resolve flattens the grant chain of one user into an rbac.Context.
//
// Rows are admitted only when the full chain is live: the assignment
// is not soft deleted, the granted entity is active and not soft
// deleted, and the entity belongs to the user's tenant or to the
// global scope. Rows from foreign tenants and menus with a broken
// hierarchy are skipped with a warning rather than failing the whole
// resolution. Storage errors always propagate; a user without roles
// gets an empty context and no error.
func (s *AuthzService) Resolve(ctx context.Context, userID uint64) (*rbac.Context, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status != model.StatusEnabled {
		return nil, errors.ErrAccountDisabled
	}

	authCtx := &rbac.Context{
		UserID:      user.ID,
		Roles:       []string{},
		Permissions: []string{},
		Menus:       []*rbac.MenuNode{},
		ResolvedAt:  time.Now().UnixMilli(),
	}
	if user.TenantID != nil {
		authCtx.TenantID = *user.TenantID
	}

	allRoles, err := s.store.Roles().ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles := make([]*model.Role, 0, len(allRoles))
	roleIDs := make([]uint64, 0, len(allRoles))
	for _, role := range allRoles {
		if !tenantVisible(role.TenantID, user.TenantID) {
			logger.Warnw("excluding role from foreign tenant",
				"user_id", userID, "role_id", role.ID, "role_tenant", *role.TenantID)
			continue
		}
		roles = append(roles, role)
		roleIDs = append(roleIDs, role.ID)
	}

	if len(roles) == 0 {
		return authCtx, nil
	}

	for _, role := range roles {
		authCtx.Roles = append(authCtx.Roles, role.Code)
	}

	grantedFeatures, err := s.store.Features().ListActiveByRoleIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	features := make(map[uint64]*model.Feature, len(grantedFeatures))
	for _, feature := range grantedFeatures {
		if !tenantVisible(feature.TenantID, user.TenantID) {
			logger.Warnw("excluding feature from foreign tenant",
				"user_id", userID, "feature_id", feature.ID, "feature_tenant", *feature.TenantID)
			continue
		}
		features[feature.ID] = feature
	}

	grantedMenus, err := s.store.Menus().ListActiveByRoleIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	menus := make([]*model.Menu, 0, len(grantedMenus))
	menuIDs := make([]uint64, 0, len(grantedMenus))
	for _, menu := range grantedMenus {
		if !tenantVisible(menu.TenantID, user.TenantID) {
			logger.Warnw("excluding menu from foreign tenant",
				"user_id", userID, "menu_id", menu.ID, "menu_tenant", *menu.TenantID)
			continue
		}
		menus = append(menus, menu)
		menuIDs = append(menuIDs, menu.ID)
	}

	bindings, err := s.store.Menus().ListFeatureBindings(ctx, menuIDs)
	if err != nil {
		return nil, err
	}

	authCtx.Menus = buildMenuTree(userID, menus, bindings, features)
	authCtx.Permissions = flattenPermissions(authCtx.Menus)

	return authCtx, nil
}

// tenantVisible reports whether a row scoped to rowTenant is visible
// to a user of userTenant. Global rows (nil tenant) are visible to
// everyone; a platform user (nil tenant) sees only global rows.
func tenantVisible(rowTenant, userTenant *uint64) bool {
	if rowTenant == nil {
		return true
	}
	return userTenant != nil && *rowTenant == *userTenant
}

// flattenPermissions collects the distinct feature codes attached to
// the surviving tree, both levels, sorted. A feature granted to a role
// but carried by no resolved menu contributes nothing.
func flattenPermissions(roots []*rbac.MenuNode) []string {
	codes := make(map[string]struct{})
	for _, root := range roots {
		for _, feature := range root.Features {
			codes[feature.Code] = struct{}{}
		}
		for _, child := range root.Children {
			for _, feature := range child.Features {
				codes[feature.Code] = struct{}{}
			}
		}
	}

	permissions := make([]string, 0, len(codes))
	for code := range codes {
		permissions = append(permissions, code)
	}
	sort.Strings(permissions)
	return permissions
}

// buildMenuTree assembles the two-level menu tree. Level 1 menus
// become roots and always carry a children slice, possibly empty.
// Level 2 menus attach to their granted parent; menus whose level is
// out of range or whose parent is missing from the granted set are
// dropped with a warning.
func buildMenuTree(userID uint64, menus []*model.Menu, bindings []*model.MenuFeature, granted map[uint64]*model.Feature) []*rbac.MenuNode {
	// Effective features per menu: bound features the user actually
	// holds through role grants.
	menuFeatures := make(map[uint64][]rbac.Feature)
	for _, binding := range bindings {
		feature, ok := granted[binding.FeatureID]
		if !ok {
			continue
		}
		menuFeatures[binding.MenuID] = append(menuFeatures[binding.MenuID], rbac.Feature{
			Code:     feature.Code,
			Name:     feature.Name,
			Category: feature.Category,
		})
	}
	for _, features := range menuFeatures {
		sort.Slice(features, func(i, j int) bool {
			return features[i].Code < features[j].Code
		})
	}

	arena := make(map[uint64]*rbac.MenuNode, len(menus))
	groups := make(map[uint64]bool)
	var roots []*rbac.MenuNode

	for _, menu := range menus {
		if menu.Level != model.MenuLevelGroup {
			continue
		}
		if menu.ParentID != nil {
			logger.Warnw("excluding malformed menu: group with a parent",
				"user_id", userID, "menu_id", menu.ID)
			continue
		}
		node := newMenuNode(menu, menuFeatures[menu.ID])
		node.Children = []*rbac.MenuNode{}
		arena[menu.ID] = node
		groups[menu.ID] = true
		roots = append(roots, node)
	}

	for _, menu := range menus {
		if menu.Level == model.MenuLevelGroup {
			continue
		}
		if menu.Level != model.MenuLevelPage {
			logger.Warnw("excluding malformed menu: level out of range",
				"user_id", userID, "menu_id", menu.ID, "level", menu.Level)
			continue
		}
		if menu.ParentID == nil || !groups[*menu.ParentID] {
			logger.Warnw("excluding orphan menu: parent not in granted set",
				"user_id", userID, "menu_id", menu.ID)
			continue
		}
		parent := arena[*menu.ParentID]
		parent.Children = append(parent.Children, newMenuNode(menu, menuFeatures[menu.ID]))
	}

	sortMenuNodes(roots)
	for _, root := range roots {
		sortMenuNodes(root.Children)
	}

	if roots == nil {
		roots = []*rbac.MenuNode{}
	}
	return roots
}

// newMenuNode converts a menu row to a tree node. Features is never
// nil so the wire shape stays stable.
func newMenuNode(menu *model.Menu, features []rbac.Feature) *rbac.MenuNode {
	if features == nil {
		features = []rbac.Feature{}
	}
	return &rbac.MenuNode{
		ID:        menu.ID,
		Name:      menu.Name,
		Path:      menu.Path,
		Icon:      menu.Icon,
		SortOrder: menu.SortOrder,
		Level:     menu.Level,
		Features:  features,
	}
}

// sortMenuNodes orders sibling nodes by (sort_order, id).
func sortMenuNodes(nodes []*rbac.MenuNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].ID < nodes[j].ID
	})
}
