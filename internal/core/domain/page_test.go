package domain

import (
	"testing"
	"time"
)

func TestPage_ReconcileBlock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name         string
		page         Page
		ownerBlocked bool
		wantBlocked  bool
		wantMutated  bool
		wantDateNil  bool
	}{
		{
			name:        "no block state",
			page:        Page{},
			wantBlocked: false,
			wantDateNil: true,
		},
		{
			name:        "permanent block",
			page:        Page{PermanentBlock: true},
			wantBlocked: true,
			wantDateNil: true,
		},
		{
			name:        "permanent block ignores stale date",
			page:        Page{PermanentBlock: true, UnblockDate: &past},
			wantBlocked: true,
		},
		{
			name:        "future unblock date",
			page:        Page{UnblockDate: &future},
			wantBlocked: true,
		},
		{
			name:        "expired unblock date clears",
			page:        Page{UnblockDate: &past},
			wantBlocked: false,
			wantMutated: true,
			wantDateNil: true,
		},
		{
			name:        "unblock date at the boundary clears",
			page:        Page{UnblockDate: &now},
			wantBlocked: false,
			wantMutated: true,
			wantDateNil: true,
		},
		{
			name:         "blocked owner pins expired date",
			page:         Page{UnblockDate: &past},
			ownerBlocked: true,
			wantBlocked:  true,
		},
		{
			name:         "blocked owner without date does not block",
			page:         Page{},
			ownerBlocked: true,
			wantBlocked:  false,
			wantDateNil:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.page
			blocked, mutated := p.ReconcileBlock(tc.ownerBlocked, now)
			if blocked != tc.wantBlocked {
				t.Errorf("blocked: got %v, want %v", blocked, tc.wantBlocked)
			}
			if mutated != tc.wantMutated {
				t.Errorf("mutated: got %v, want %v", mutated, tc.wantMutated)
			}
			if tc.wantDateNil && p.UnblockDate != nil {
				t.Errorf("unblock date: expected nil, got %v", p.UnblockDate)
			}
		})
	}
}

func TestPage_Membership(t *testing.T) {
	p := Page{
		Followers:      []string{"bob", "carol"},
		FollowRequests: []string{"dave"},
	}

	if !p.IsFollower("bob") || p.IsFollower("dave") {
		t.Error("IsFollower must reflect the follower set only")
	}
	if !p.HasRequest("dave") || p.HasRequest("bob") {
		t.Error("HasRequest must reflect the request queue only")
	}
}

func TestRole(t *testing.T) {
	if !RoleModerator.Staff() || !RoleAdmin.Staff() || RoleUser.Staff() {
		t.Error("staff roles are moderator and admin")
	}
	if !RoleUser.Valid() || Role("superuser").Valid() {
		t.Error("role validity check wrong")
	}
}
