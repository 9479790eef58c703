package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func newAlice() domain.NewUser {
	return domain.NewUser{
		Name:  "Alice",
		Email: "alice@example.com",
		Age:   ptr(int64(28)),
		City:  ptr("Beijing"),
	}
}

func TestUserCreate_AssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	created, err := repo.Create(ctx, newAlice())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Error("ID not assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not assigned")
	}

	got, err := repo.FindOne(ctx, repository.Predicate{"id": created.ID})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.Name != "Alice" || got.Email != "alice@example.com" {
		t.Errorf("got %q %q, want submitted fields back", got.Name, got.Email)
	}
	if got.Age == nil || *got.Age != 28 {
		t.Errorf("Age = %v, want 28", got.Age)
	}
	if got.City == nil || *got.City != "Beijing" {
		t.Errorf("City = %v, want Beijing", got.City)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	if _, err := repo.Create(ctx, newAlice()); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	dup := newAlice()
	dup.Name = "Other"
	if _, err := repo.Create(ctx, dup); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("second Create error = %v, want ErrEmailTaken", err)
	}

	n, err := repo.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d after rejected duplicate, want 1", n)
	}
}

func TestUserFindAll_IDDescending(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		if _, err := repo.Create(ctx, domain.NewUser{Name: "u", Email: email}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	users, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("len = %d, want 3", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID < users[i].ID {
			t.Fatalf("not id-descending: %d before %d", users[i-1].ID, users[i].ID)
		}
	}
}

func TestUserUpdate_PartialAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	created, err := repo.Create(ctx, newAlice())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, domain.UserPatch{
		City: domain.Some("Chengdu"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.City == nil || *updated.City != "Chengdu" {
		t.Errorf("City = %v, want Chengdu", updated.City)
	}
	if updated.Name != created.Name || updated.Email != created.Email {
		t.Error("untouched fields changed")
	}
	if updated.Age == nil || *updated.Age != 28 {
		t.Errorf("Age = %v, want unchanged 28", updated.Age)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}
}

func TestUserUpdate_NullClearsOptionalFields(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	created, err := repo.Create(ctx, newAlice())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(ctx, created.ID, domain.UserPatch{
		Age:  domain.Null[int64](),
		City: domain.Null[string](),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Age != nil {
		t.Errorf("Age = %v, want cleared", updated.Age)
	}
	if updated.City != nil {
		t.Errorf("City = %v, want cleared", updated.City)
	}
}

func TestUserUpdate_EmailConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	if _, err := repo.Create(ctx, newAlice()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	bob, err := repo.Create(ctx, domain.NewUser{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = repo.Update(ctx, bob.ID, domain.UserPatch{Email: domain.Some("alice@example.com")})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("Update error = %v, want ErrEmailTaken", err)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	_, err := repo.Update(ctx, 99, domain.UserPatch{Name: domain.Some("x")})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUserDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	created, err := repo.Create(ctx, newAlice())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := repo.Delete(ctx, created.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete = %v, %v; want true, nil", deleted, err)
	}

	// Absent id is a false, not an error.
	deleted, err = repo.Delete(ctx, created.ID)
	if err != nil || deleted {
		t.Fatalf("second Delete = %v, %v; want false, nil", deleted, err)
	}

	if _, err := repo.FindOne(ctx, repository.Predicate{"id": created.ID}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("FindOne after delete error = %v, want ErrUserNotFound", err)
	}
}

func TestUserFindMany_PredicateConjunction(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	seedUsers := []domain.NewUser{
		{Name: "a", Email: "a@x.com", City: ptr("Beijing"), Age: ptr(int64(20))},
		{Name: "b", Email: "b@x.com", City: ptr("Beijing"), Age: ptr(int64(30))},
		{Name: "c", Email: "c@x.com", City: ptr("Shanghai"), Age: ptr(int64(20))},
	}
	for _, nu := range seedUsers {
		if _, err := repo.Create(ctx, nu); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.FindMany(ctx, repository.Predicate{"city": "Beijing", "age": int64(20)})
	if err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("got %d records, want exactly user a", len(got))
	}

	// No match is an empty slice, not an error.
	got, err = repo.FindMany(ctx, repository.Predicate{"city": "Wuhan"})
	if err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d records, want 0", len(got))
	}
}

func TestUserCount_WithPredicate(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	for i, city := range []string{"Beijing", "Beijing", "Shanghai"} {
		_, err := repo.Create(ctx, domain.NewUser{
			Name:  "u",
			Email: string(rune('a'+i)) + "@x.com",
			City:  ptr(city),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	n, err := repo.Count(ctx, repository.Predicate{"city": "Beijing"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestUserPredicate_UnknownField(t *testing.T) {
	ctx := context.Background()
	repo := NewDB().Users()

	if _, err := repo.FindOne(ctx, repository.Predicate{"nope": 1}); err == nil {
		t.Fatal("expected error for unknown predicate field")
	}
}
