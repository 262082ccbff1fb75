package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kln-se/uml-diagrams/internal/domain"
)

func TestDiagram_OwnedBy(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	d := domain.Diagram{OwnerID: &owner}
	assert.True(t, d.OwnedBy(owner))
	assert.False(t, d.OwnedBy(other))

	// владелец удалён (SET NULL): диаграмма ничья
	orphan := domain.Diagram{}
	assert.False(t, orphan.OwnedBy(owner))
}

func TestPage_Normalize(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Page
		want domain.Page
	}{
		{"defaults", domain.Page{}, domain.Page{Limit: 20}},
		{"negative", domain.Page{Limit: -5, Offset: -1}, domain.Page{Limit: 20}},
		{"capped", domain.Page{Limit: 500}, domain.Page{Limit: 20}},
		{"kept", domain.Page{Limit: 50, Offset: 100}, domain.Page{Limit: 50, Offset: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestRole(t *testing.T) {
	assert.True(t, domain.RoleUser.Valid())
	assert.True(t, domain.RoleModerator.Valid())
	assert.True(t, domain.RoleAdmin.Valid())
	assert.False(t, domain.Role("root").Valid())

	assert.True(t, domain.Actor{Role: domain.RoleAdmin}.IsAdmin())
	assert.False(t, domain.Actor{Role: domain.RoleModerator}.IsAdmin())
}
