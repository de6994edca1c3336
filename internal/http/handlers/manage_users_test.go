package handlers_test

import (
	"net/http"
	"testing"
)

func TestUserDeleteRefusesSuperuser(t *testing.T) {
	app, db := newManageApp(t)

	resp := postForm(t, app, "/manage/users/1/delete/", "sid-owner", nil, nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM users WHERE id = 1`); n != 1 {
		t.Fatal("superuser account must survive the delete attempt")
	}
}

func TestUserDeleteRefusesSelf(t *testing.T) {
	app, db := newManageApp(t)

	resp := postForm(t, app, "/manage/users/2/delete/", "sid-owner", nil, nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM users WHERE id = 2`); n != 1 {
		t.Fatal("an owner must not be able to delete their own account")
	}
}

func TestUserDeleteRemovesRegularAccount(t *testing.T) {
	app, db := newManageApp(t)

	resp := postForm(t, app, "/manage/users/4/delete/", "sid-owner", nil, nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM users WHERE id = 4`); n != 0 {
		t.Fatal("expected the account to be gone")
	}
}

func TestUserDeleteForbiddenForEmployee(t *testing.T) {
	app, db := newManageApp(t)

	resp := postForm(t, app, "/manage/users/4/delete/", "sid-employee", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM users WHERE id = 4`); n != 1 {
		t.Fatal("employee delete attempt must not remove the account")
	}
}
