package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

func newUserUsecase() *UserUsecase {
	return NewUserUsecase(memory.NewDB().Users())
}

func aliceInput() CreateUserInput {
	return CreateUserInput{
		Name:  "Alice",
		Email: "alice@example.com",
		Age:   ptr(int64(28)),
		City:  ptr("Beijing"),
	}
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	uc := newUserUsecase()

	if _, err := uc.Create(ctx, aliceInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := uc.Create(ctx, aliceInput()); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("error = %v, want ErrEmailTaken", err)
	}

	users, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("len = %d after rejected duplicate, want 1", len(users))
	}
}

func TestUpdate_KeepingOwnEmailIsNotAConflict(t *testing.T) {
	ctx := context.Background()
	uc := newUserUsecase()

	alice, err := uc.Create(ctx, aliceInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := uc.Update(ctx, alice.ID, domain.UserPatch{
		Name:  domain.Some("Alice Chen"),
		Email: domain.Some(alice.Email),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Alice Chen" {
		t.Errorf("Name = %q, want Alice Chen", updated.Name)
	}
}

func TestUpdate_EmailTakenByOther(t *testing.T) {
	ctx := context.Background()
	uc := newUserUsecase()

	if _, err := uc.Create(ctx, aliceInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	bob, err := uc.Create(ctx, CreateUserInput{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = uc.Update(ctx, bob.ID, domain.UserPatch{Email: domain.Some("alice@example.com")})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("error = %v, want ErrEmailTaken", err)
	}
}

func TestDelete_ReturnsDeletedRecord(t *testing.T) {
	ctx := context.Background()
	uc := newUserUsecase()

	alice, err := uc.Create(ctx, aliceInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := uc.Delete(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Name != "Alice" {
		t.Errorf("deleted.Name = %q, want Alice", deleted.Name)
	}

	if _, err := uc.GetByID(ctx, alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("GetByID after delete error = %v, want ErrUserNotFound", err)
	}
	if _, err := uc.Delete(ctx, alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second Delete error = %v, want ErrUserNotFound", err)
	}
}
