package role

import (
	"cmp"
	"slices"
	"time"
)

// Node is one role's position in the management hierarchy. CanManage and
// CanAssign hold role ids resolved from the assignment rule table.
type Node struct {
	RoleID    string   `bson:"role_id" json:"role_id"`
	RoleName  string   `bson:"role_name" json:"role_name"`
	Level     int      `bson:"level" json:"level"`
	Children  []*Node  `bson:"children,omitempty" json:"children,omitempty"`
	CanManage []string `bson:"can_manage,omitempty" json:"can_manage,omitempty"`
	CanAssign []string `bson:"can_assign,omitempty" json:"can_assign,omitempty"`
}

// Hierarchy is the materialized management forest for one organization,
// covering the organization's own roles plus the platform roles visible to
// it. DefaultRoles lists roles flagged IsDefault; AllowedRoles lists every
// role id visible to the tenant.
type Hierarchy struct {
	OrganizationID string    `bson:"_id" json:"organization_id"`
	Nodes          []*Node   `bson:"nodes" json:"nodes"`
	DefaultRoles   []string  `bson:"default_roles,omitempty" json:"default_roles,omitempty"`
	AllowedRoles   []string  `bson:"allowed_roles" json:"allowed_roles"`
	GeneratedAt    time.Time `bson:"generated_at" json:"generated_at"`
}

// BuildHierarchy arranges the given roles into a forest ordered by the fixed
// level sequence. Within a tier, roles are taken in name order; each new node
// greedily adopts every not-yet-placed role from strictly later tiers,
// depth-first. Tier order, not ParentRoleID, decides nesting: the result is
// an authorization scope structure in which a node's subtree is always at
// strictly lower tiers.
//
// CanManage and CanAssign per node come from the rule table: the wildcard
// resolves to every role in the set, named targets resolve to the matching
// ids, and CanManage is populated only for rules that grant user management.
func BuildHierarchy(roles []Role, rules RuleSet) []*Node {
	byLevel := make(map[Level][]Role)
	for _, r := range roles {
		byLevel[r.Level] = append(byLevel[r.Level], r)
	}
	order := LevelOrder()
	for _, lvl := range order {
		slices.SortFunc(byLevel[lvl], func(a, b Role) int {
			return cmp.Compare(a.Name, b.Name)
		})
	}

	idsByName := make(map[string][]string, len(roles))
	allIDs := make([]string, 0, len(roles))
	for _, r := range roles {
		idsByName[r.Name] = append(idsByName[r.Name], r.ID)
		allIDs = append(allIDs, r.ID)
	}
	slices.Sort(allIDs)

	visited := make(map[string]bool, len(roles))

	var attach func(rank int) []*Node
	attach = func(rank int) []*Node {
		var children []*Node
		for i := rank; i < len(order); i++ {
			for _, r := range byLevel[order[i]] {
				if visited[r.ID] {
					continue
				}
				visited[r.ID] = true
				node := newNode(r, rules, idsByName, allIDs)
				node.Children = attach(i + 1)
				children = append(children, node)
			}
		}
		return children
	}

	var roots []*Node
	for i, lvl := range order {
		for _, r := range byLevel[lvl] {
			if visited[r.ID] {
				continue
			}
			visited[r.ID] = true
			node := newNode(r, rules, idsByName, allIDs)
			node.Children = attach(i + 1)
			roots = append(roots, node)
		}
	}
	return roots
}

func newNode(r Role, rules RuleSet, idsByName map[string][]string, allIDs []string) *Node {
	node := &Node{
		RoleID:   r.ID,
		RoleName: r.Name,
		Level:    r.Level.Rank(),
	}

	rule, ok := rules.ForRole(r.Name)
	if !ok {
		return node
	}

	var assignable []string
	if rule.AllowsAnyAssignment() {
		assignable = slices.Clone(allIDs)
	} else {
		for _, name := range rule.CanAssignRoles {
			assignable = append(assignable, idsByName[name]...)
		}
		slices.Sort(assignable)
		assignable = slices.Compact(assignable)
	}
	node.CanAssign = assignable
	if rule.CanManageUsers {
		node.CanManage = slices.Clone(assignable)
	}
	return node
}
