package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcflow/accesskit/pkg/permission"
)

func TestMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		required string
		granted  string
		expected bool
	}{
		{
			name:     "exact match",
			required: "lc:view",
			granted:  "lc:view",
			expected: true,
		},
		{
			name:     "global wildcard",
			required: "lc:approve",
			granted:  "*",
			expected: true,
		},
		{
			name:     "resource wildcard",
			required: "lc:approve",
			granted:  "lc:*",
			expected: true,
		},
		{
			name:     "resource wildcard other resource",
			required: "doc:view",
			granted:  "lc:*",
			expected: false,
		},
		{
			name:     "no match",
			required: "lc:approve",
			granted:  "lc:view",
			expected: false,
		},
		{
			name:     "wildcard does not match bare prefix",
			required: "lc",
			granted:  "lc:*",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, permission.Matches(tt.required, tt.granted))
		})
	}
}

func TestHas(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		granted  []string
		required permission.Permission
		expected bool
	}{
		{
			name:     "empty granted",
			granted:  nil,
			required: permission.OrgView,
			expected: false,
		},
		{
			name:     "direct grant",
			granted:  []string{"org:view", "profile:edit"},
			required: permission.OrgView,
			expected: true,
		},
		{
			name:     "via resource wildcard",
			granted:  []string{"org:*"},
			required: permission.OrgRoleManage,
			expected: true,
		},
		{
			name:     "via global wildcard",
			granted:  []string{"*"},
			required: permission.LCRelease,
			expected: true,
		},
		{
			name:     "missing",
			granted:  []string{"org:view"},
			required: permission.OrgRoleManage,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, permission.Has(tt.granted, tt.required))
		})
	}
}

func TestContainsAll(t *testing.T) {
	t.Parallel()

	granted := []string{"org:view", "org:user_manage", "lc:*"}

	assert.True(t, permission.ContainsAll(granted, nil))
	assert.True(t, permission.ContainsAll(granted, []permission.Permission{
		permission.OrgView, permission.LCApprove,
	}))
	assert.False(t, permission.ContainsAll(granted, []permission.Permission{
		permission.OrgView, permission.DocVerify,
	}))
	assert.True(t, permission.ContainsAll([]string{"*"}, []permission.Permission{
		permission.PlatformManage, permission.ComplianceReview,
	}))
	assert.False(t, permission.ContainsAll(nil, []permission.Permission{permission.OrgView}))
}

func TestContainsAny(t *testing.T) {
	t.Parallel()

	granted := []string{"org:view", "doc:upload"}

	assert.True(t, permission.ContainsAny(granted, []permission.Permission{
		permission.LCApprove, permission.DocUpload,
	}))
	assert.False(t, permission.ContainsAny(granted, []permission.Permission{
		permission.LCApprove, permission.LCRelease,
	}))
	assert.True(t, permission.ContainsAny(granted, nil))
}

func TestUnion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		sets     [][]string
		expected []string
	}{
		{
			name:     "empty",
			sets:     nil,
			expected: nil,
		},
		{
			name:     "deduplicates across sets",
			sets:     [][]string{{"org:view", "lc:view"}, {"lc:view", "doc:view"}},
			expected: []string{"doc:view", "lc:view", "org:view"},
		},
		{
			name:     "drops empty strings",
			sets:     [][]string{{"", "org:view"}},
			expected: []string{"org:view"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, permission.Union(tt.sets...))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		perm    permission.Permission
		wantErr bool
	}{
		{name: "simple", perm: "org:view", wantErr: false},
		{name: "global wildcard", perm: "*", wantErr: false},
		{name: "resource wildcard", perm: "lc:*", wantErr: false},
		{name: "three segments", perm: "org:settings:manage", wantErr: false},
		{name: "empty", perm: "", wantErr: true},
		{name: "empty segment", perm: "org::view", wantErr: true},
		{name: "whitespace", perm: "org: view", wantErr: true},
		{name: "non-terminal wildcard", perm: "*:view", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.perm.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, permission.ErrInvalidPermission)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResourceAction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "lc", permission.LCApprove.Resource())
	assert.Equal(t, "approve", permission.LCApprove.Action())
	assert.Equal(t, "*", permission.Wildcard.Resource())
	assert.Equal(t, "", permission.Wildcard.Action())
}

func TestStrings(t *testing.T) {
	t.Parallel()

	assert.Nil(t, permission.Strings())
	assert.Equal(t,
		[]string{"org:view", "profile:edit"},
		permission.Strings(permission.OrgView, permission.ProfileEdit),
	)
}
