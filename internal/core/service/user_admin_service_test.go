package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidvault/video-vault/internal/core/domain"
	"github.com/vidvault/video-vault/internal/core/ports"
)

type adminFixture struct {
	svc      *UserAdminService
	users    *stubUserRepo
	codes    *stubCodeRepo
	videos   *stubVideoRepo
	activity *stubActivityRepo
}

func newAdminFixture() *adminFixture {
	users := newStubUserRepo()
	codes := newStubCodeRepo()
	videos := newStubVideoRepo()
	activity := newStubActivityRepo()
	credentials := NewCredentialService(users, activity, zerolog.Nop())
	return &adminFixture{
		svc:      NewUserAdminService(users, codes, videos, credentials, activity, zerolog.Nop()),
		users:    users,
		codes:    codes,
		videos:   videos,
		activity: activity,
	}
}

func TestUserAdmin_RequiresAdminActor(t *testing.T) {
	f := newAdminFixture()
	viewer := &domain.User{ID: "user-1", Role: domain.RoleUser}

	if _, err := f.svc.ListUsers(context.Background(), viewer, domain.ClientMeta{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a USER actor, got %v", err)
	}
	if _, err := f.svc.ListUsers(context.Background(), nil, domain.ClientMeta{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a nil actor, got %v", err)
	}
}

func TestCreateUser_RequiresEmailOrName(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.CreateUser(context.Background(), adminActor(), ports.CreateUserInput{Role: domain.RoleUser}, domain.ClientMeta{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateUser_DefaultsRoleAndAudits(t *testing.T) {
	f := newAdminFixture()

	res, err := f.svc.CreateUser(context.Background(), adminActor(), ports.CreateUserInput{Name: "Nina"}, domain.ClientMeta{})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("expected default USER role, got %s", res.User.Role)
	}
	if res.User.HasPassword() {
		t.Fatalf("no password option given, user must be passwordless")
	}
	if !f.activity.hasAction(domain.ActionUserCreated) {
		t.Fatalf("expected a USER_CREATED audit record")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	f := newAdminFixture()

	if _, err := f.svc.CreateUser(context.Background(), adminActor(), ports.CreateUserInput{Email: "dup@example.com"}, domain.ClientMeta{}); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}
	if _, err := f.svc.CreateUser(context.Background(), adminActor(), ports.CreateUserInput{Email: "dup@example.com"}, domain.ClientMeta{}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestCreateUser_WithTemporaryPassword(t *testing.T) {
	f := newAdminFixture()

	res, err := f.svc.CreateUser(context.Background(), adminActor(), ports.CreateUserInput{
		Email:             "oscar@example.com",
		GenerateTemporary: true,
	}, domain.ClientMeta{})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if res.TemporaryPassword == "" {
		t.Fatalf("expected the temporary password plaintext")
	}
	if !res.User.MustChangePassword {
		t.Fatalf("temporary password must force a change")
	}
}

func TestCreateUser_RemovesOrphanWhenPasswordRejected(t *testing.T) {
	f := newAdminFixture()

	_, err := f.svc.CreateUser(context.Background(), adminActor(), ports.CreateUserInput{
		Email:       "paula@example.com",
		RawPassword: "weak",
	}, domain.ClientMeta{})
	if !errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatalf("expected a policy error, got %v", err)
	}

	if _, err := f.users.FindByEmail(context.Background(), "paula@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected the half-created user to be removed, got %v", err)
	}
}

func TestUpdateUser_ForbidsSelfModification(t *testing.T) {
	f := newAdminFixture()
	actor := adminActor()

	name := "New Name"
	if _, err := f.svc.UpdateUser(context.Background(), actor, actor.ID, ports.UpdateUserInput{Name: &name}, domain.ClientMeta{}); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("expected ErrSelfModification, got %v", err)
	}
}

func TestUpdateUser_AppliesPartialChanges(t *testing.T) {
	f := newAdminFixture()
	target, _ := f.users.Create(context.Background(), &domain.User{Email: "quinn@example.com", Name: "Quinn", Role: domain.RoleUser})

	role := domain.RoleAdmin
	updated, err := f.svc.UpdateUser(context.Background(), adminActor(), target.ID, ports.UpdateUserInput{Role: &role}, domain.ClientMeta{})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected role change to ADMIN, got %s", updated.Role)
	}
	if updated.Email != "quinn@example.com" || updated.Name != "Quinn" {
		t.Fatalf("untouched fields must survive: %+v", updated)
	}
	if !f.activity.hasAction(domain.ActionUserUpdated) || !f.activity.hasAction(domain.ActionUserProfileUpdated) {
		t.Fatalf("expected paired audit records, got %v", f.activity.actions())
	}
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	f := newAdminFixture()
	f.users.Create(context.Background(), &domain.User{Email: "taken@example.com", Role: domain.RoleUser})
	target, _ := f.users.Create(context.Background(), &domain.User{Email: "rosa@example.com", Role: domain.RoleUser})

	email := "taken@example.com"
	if _, err := f.svc.UpdateUser(context.Background(), adminActor(), target.ID, ports.UpdateUserInput{Email: &email}, domain.ClientMeta{}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestDeleteUser_CascadesAndSummarises(t *testing.T) {
	f := newAdminFixture()
	target, _ := f.users.Create(context.Background(), &domain.User{Email: "sam@example.com", Role: domain.RoleUser})

	f.videos.Create(context.Background(), &domain.Video{Title: "one", UploadedByID: target.ID})
	f.videos.Create(context.Background(), &domain.Video{Title: "two", UploadedByID: target.ID})
	f.codes.add(&domain.AccessCode{Code: "bound", Type: domain.RoleUser, IsActive: true, UserID: target.ID})

	summary, err := f.svc.DeleteUser(context.Background(), adminActor(), target.ID, domain.ClientMeta{})
	if err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if summary.Videos != 2 || summary.AccessCodes != 1 || summary.Sessions != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if _, err := f.users.FindByID(context.Background(), target.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected the user to be gone, got %v", err)
	}

	// The code survives, unbound, and may mint a fresh identity later.
	code, _ := f.codes.FindByCode(context.Background(), "bound")
	if code.UserID != "" {
		t.Fatalf("expected the code binding to be cleared, got %q", code.UserID)
	}
}

func TestDeleteUser_ForbidsSelfDeletion(t *testing.T) {
	f := newAdminFixture()
	actor := adminActor()

	if _, err := f.svc.DeleteUser(context.Background(), actor, actor.ID, domain.ClientMeta{}); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("expected ErrSelfModification, got %v", err)
	}
}

func TestGetUser_EnrichesWithStatusAndCounts(t *testing.T) {
	f := newAdminFixture()
	past := time.Now().UTC().Add(-100 * 24 * time.Hour)
	target, _ := f.users.Create(context.Background(), &domain.User{
		Email:              "tina@example.com",
		Role:               domain.RoleUser,
		PasswordHash:       "$2a$12$placeholderhashvalue",
		PasswordSetAt:      &past,
		LastPasswordChange: &past,
	})
	f.videos.Create(context.Background(), &domain.Video{Title: "clip", UploadedByID: target.ID})

	got, err := f.svc.GetUser(context.Background(), adminActor(), target.ID)
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if !got.PasswordStatus.HasPassword {
		t.Fatalf("expected has_password true")
	}
	if !got.PasswordStatus.IsPasswordExpired {
		t.Fatalf("a 100-day-old password must be reported expired")
	}
	if got.Videos != 1 {
		t.Fatalf("expected one video counted, got %d", got.Videos)
	}
}

func TestCreateAccessCode(t *testing.T) {
	f := newAdminFixture()

	created, err := f.svc.CreateAccessCode(context.Background(), adminActor(), ports.CreateAccessCodeInput{
		Code: "winter2025", Description: "seasonal invite",
	}, domain.ClientMeta{})
	if err != nil {
		t.Fatalf("CreateAccessCode returned error: %v", err)
	}
	if created.Type != domain.RoleUser {
		t.Fatalf("expected default USER type, got %s", created.Type)
	}
	if !created.IsActive {
		t.Fatalf("new codes must start active")
	}

	if _, err := f.svc.CreateAccessCode(context.Background(), adminActor(), ports.CreateAccessCodeInput{Code: "winter2025"}, domain.ClientMeta{}); !errors.Is(err, domain.ErrAccessCodeExists) {
		t.Fatalf("expected ErrAccessCodeExists, got %v", err)
	}

	if _, err := f.svc.CreateAccessCode(context.Background(), adminActor(), ports.CreateAccessCodeInput{}, domain.ClientMeta{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an empty code, got %v", err)
	}
}

func TestDeactivateAccessCode(t *testing.T) {
	f := newAdminFixture()
	code := f.codes.add(&domain.AccessCode{Code: "retire-me", Type: domain.RoleUser, IsActive: true})

	if err := f.svc.DeactivateAccessCode(context.Background(), adminActor(), code.ID, domain.ClientMeta{}); err != nil {
		t.Fatalf("DeactivateAccessCode returned error: %v", err)
	}

	stored, _ := f.codes.FindByID(context.Background(), code.ID)
	if stored.IsActive {
		t.Fatalf("expected the code to be inactive")
	}

	if err := f.svc.DeactivateAccessCode(context.Background(), adminActor(), "missing", domain.ClientMeta{}); !errors.Is(err, domain.ErrAccessCodeNotFound) {
		t.Fatalf("expected ErrAccessCodeNotFound, got %v", err)
	}
}
