package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/cart"
	"github.com/trezcool/soko/core/coupon"
	"github.com/trezcool/soko/core/course"
	logsvc "github.com/trezcool/soko/services/logger"
	"github.com/trezcool/soko/storage/database"
	sqlxrepos "github.com/trezcool/soko/storage/database/sqlx"
	localstore "github.com/trezcool/soko/storage/local"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	svcLogger := logsvc.NewRollbarLogger(logger, conf)
	svcLogger.Enable(!conf.Debug)

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sqlxDB := sqlx.NewDb(db, "postgres")

	// start CLI
	cli := commandLine{
		db:        db,
		courseSvc: course.NewService(sqlxrepos.NewCourseRepository(sqlxDB)),
		couponSvc: coupon.NewService(sqlxrepos.NewCouponRepository(sqlxDB)),
		carts:     cart.NewRegistry(localstore.Opener(conf.Cart.Dir), svcLogger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
