package domain

import (
	"encoding/json"
	"testing"
)

func TestUserPatch_DistinguishesAbsentAndNull(t *testing.T) {
	var patch UserPatch
	if err := json.Unmarshal([]byte(`{"name":"Alice","age":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !patch.Name.Set || !patch.Name.Valid || patch.Name.Value != "Alice" {
		t.Errorf("Name = %+v, want set to Alice", patch.Name)
	}
	if !patch.Age.Set || patch.Age.Valid {
		t.Errorf("Age = %+v, want explicit null", patch.Age)
	}
	if patch.Email.Set || patch.City.Set {
		t.Error("absent fields must stay unset")
	}
}

func TestUserPatch_EmptyBodyIsZero(t *testing.T) {
	var patch UserPatch
	if err := json.Unmarshal([]byte(`{}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !patch.IsZero() {
		t.Errorf("patch = %+v, want zero", patch)
	}
}

func TestAuthUser_PasswordNeverSerializes(t *testing.T) {
	data, err := json.Marshal(AuthUser{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["password"]; ok {
		t.Errorf("password leaked into JSON: %s", data)
	}
}
