package system

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/focuslit/internal/service"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	gokeyring.MockInit()
	ctx, _ := setupTestContext(t)
	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := ctx.Service.CreateUser(ctx.Ctx, service.NewUser{Username: "student", Email: "student@focuslit.app"}); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_MissingUserIsWarning(t *testing.T) {
	gokeyring.MockInit()
	ctx, _ := setupTestContext(t)
	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor should only warn about a missing profile: %v", err)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor should fail when the database was never initialized")
	}
}

func TestCheckSchemaVersion(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	if err := checkSchemaVersion(ctx); err != nil {
		t.Errorf("checkSchemaVersion() = %v, want nil after init", err)
	}
}
