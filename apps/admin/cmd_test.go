package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/trezcool/soko/core/cart"
	"github.com/trezcool/soko/core/coupon"
	"github.com/trezcool/soko/core/course"
	inmemdb "github.com/trezcool/soko/storage/database/inmem"
	localstore "github.com/trezcool/soko/storage/local"
)

type nullLogger struct{}

func (nullLogger) Debug(string, ...interface{}) {}
func (nullLogger) Info(string, ...interface{})  {}
func (nullLogger) Warn(string, ...interface{})  {}
func (nullLogger) Error(string, ...interface{}) {}
func (nullLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) *commandLine {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return &commandLine{
		courseSvc: course.NewService(inmemdb.NewCourseRepository(db)),
		couponSvc: coupon.NewService(inmemdb.NewCouponRepository(db)),
		carts:     cart.NewRegistry(localstore.Opener(t.TempDir()), nullLogger{}),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "coupon", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_seedCourses(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "seedcourses"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	courses, err := cli.courseSvc.QueryAll()
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(courses) != len(sampleCourses) {
		t.Errorf("courses = %d; want %d", len(courses), len(sampleCourses))
	}

	// re-running must not duplicate
	if err := cli.run([]string{"admin", "seedcourses"}); err != nil {
		t.Fatalf("second cli.run() failed: %v", err)
	}
	courses, _ = cli.courseSvc.QueryAll()
	if len(courses) != len(sampleCourses) {
		t.Errorf("courses after re-run = %d; want %d", len(courses), len(sampleCourses))
	}
}

func Test_commandLine_addCoupon(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"addcoupon"}, wantErr: errHelp},
		{name: "no discount", args: []string{"addcoupon", "-code", "karibu"}, wantErr: errHelp},
		{name: "bad expiry", args: []string{"addcoupon", "-code", "karibu", "-discount", "30", "-expires", "lol"}, wantErrStr: `parsing time "lol" as "2006-01-02": cannot parse "lol" as "2006"`},
		{name: "ok", args: []string{"addcoupon", "-code", "KARIBU", "-discount", "30"}},
		{name: "ok with expiry", args: []string{"addcoupon", "-code", "mwaka", "-discount", "15", "-expires", "2030-01-01"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}

	// codes are stored lowercased
	cpn, err := cli.couponSvc.Resolve("karibu")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if cpn.Discount != 30 || !cpn.Active {
		t.Errorf("coupon = %+v; want active with discount 30", cpn)
	}
}

func Test_commandLine_clearCart(t *testing.T) {
	cli := setup(t)

	svc := cli.carts.Service("std-001")
	svc.AddToCart(cart.NewItem{CourseID: "c1", Slug: "go-basics", Title: "Go Basics", Price: 100})
	if n := svc.CartItemCount(); n != 1 {
		t.Fatalf("count = %d; want 1", n)
	}

	if err := cli.run([]string{"admin", "clearcart"}); err != errHelp {
		t.Errorf("cli.run() without owner error = %v, want %v", err, errHelp)
	}

	if err := cli.run([]string{"admin", "clearcart", "-owner", "std-001"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if n := svc.CartItemCount(); n != 0 {
		t.Errorf("count after clear = %d; want 0", n)
	}
}
