package app

import (
	"path/filepath"
	"testing"

	"github.com/recoveryfit/corpreport/internal/db"
	"github.com/recoveryfit/corpreport/internal/models"
)

func TestCreateAdminUserWithConn_FirstIsSuperAdmin(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "corpreport-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	if errCreate := CreateAdminUserWithConn(conn, "admin", "password"); errCreate != nil {
		t.Fatalf("CreateAdminUserWithConn: %v", errCreate)
	}
	if errCreate := CreateAdminUserWithConn(conn, "reporter", "password"); errCreate != nil {
		t.Fatalf("CreateAdminUserWithConn: %v", errCreate)
	}

	var first, second models.Admin
	if errFind := conn.Where("username = ?", "admin").First(&first).Error; errFind != nil {
		t.Fatalf("find first admin: %v", errFind)
	}
	if errFind := conn.Where("username = ?", "reporter").First(&second).Error; errFind != nil {
		t.Fatalf("find second admin: %v", errFind)
	}
	if !first.IsSuperAdmin {
		t.Fatalf("expected first admin to be super admin")
	}
	if second.IsSuperAdmin {
		t.Fatalf("expected later admins to start without super admin")
	}

	initialized, errInit := HasAdminInitialized(conn)
	if errInit != nil {
		t.Fatalf("HasAdminInitialized: %v", errInit)
	}
	if !initialized {
		t.Fatalf("expected initialized after admin creation")
	}
}

func TestCreateAdminUserWithConn_Validation(t *testing.T) {
	if err := CreateAdminUserWithConn(nil, "admin", "password"); err == nil {
		t.Fatalf("expected error for nil connection")
	}

	dsn := "file:" + filepath.Join(t.TempDir(), "corpreport-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	if errCreate := CreateAdminUserWithConn(conn, "  ", "password"); errCreate == nil {
		t.Fatalf("expected error for blank username")
	}
	if errCreate := CreateAdminUserWithConn(conn, "admin", ""); errCreate == nil {
		t.Fatalf("expected error for empty password")
	}
}
