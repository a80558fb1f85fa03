package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yamdb-api/internal/model"
)

func TestHasRole(t *testing.T) {
	user := &model.User{Role: model.RoleUser}
	moderator := &model.User{Role: model.RoleModerator}
	admin := &model.User{Role: model.RoleAdmin}
	superuser := &model.User{Role: model.RoleUser, IsSuperuser: true}
	unknown := &model.User{Role: model.Role("root")}

	tests := []struct {
		name      string
		caller    *model.User
		admin     bool
		moderator bool
	}{
		{"anonymous", nil, false, false},
		{"user", user, false, false},
		{"moderator", moderator, false, true},
		{"admin", admin, true, true},
		{"superuser", superuser, true, true},
		{"unknown role", unknown, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.admin, IsAdmin(tt.caller))
			assert.Equal(t, tt.admin, CanWriteCatalog(tt.caller))
			assert.Equal(t, tt.moderator, IsModerator(tt.caller))
			assert.Equal(t, tt.caller != nil && tt.caller.Role.Valid() || tt.caller != nil && tt.caller.IsSuperuser,
				HasRole(tt.caller, model.RoleUser))
		})
	}
}

func TestRoleOrdering(t *testing.T) {
	assert.True(t, model.RoleAdmin.AtLeast(model.RoleModerator))
	assert.True(t, model.RoleModerator.AtLeast(model.RoleUser))
	assert.False(t, model.RoleUser.AtLeast(model.RoleModerator))
	assert.False(t, model.Role("").AtLeast(model.Role("")))
}
