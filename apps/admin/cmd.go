package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/trezcool/soko/core/cart"
	"github.com/trezcool/soko/core/coupon"
	"github.com/trezcool/soko/core/course"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sql.DB
	courseSvc *course.Service
	couponSvc *coupon.Service
	carts     *cart.Registry
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (goose commands)")
	fmt.Println("  seedcourses - load the sample course catalog")
	fmt.Println("  addcoupon -code CODE -discount AMOUNT [-expires YYYY-MM-DD] - create a coupon")
	fmt.Println("  clearcart -owner OWNER - empty a learner's cart")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCouponCmd := flag.NewFlagSet("addcoupon", flag.ExitOnError)
	addCouponCode := addCouponCmd.String("code", "", "The coupon code. Letters, digits and dashes only.")
	addCouponDiscount := addCouponCmd.Float64("discount", 0, "The flat discount amount.")
	addCouponExpires := addCouponCmd.String("expires", "", "Optional expiry date (YYYY-MM-DD). Empty means never.")

	clearCartCmd := flag.NewFlagSet("clearcart", flag.ExitOnError)
	clearCartOwner := clearCartCmd.String("owner", "", "The cart owner key (token subject).")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seedcourses":
		return cli.seedCourses()
	case "addcoupon":
		if err := addCouponCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCouponCode == "" || *addCouponDiscount <= 0 {
			addCouponCmd.Usage()
			return errHelp
		}
		var expiresAt time.Time
		if *addCouponExpires != "" {
			var err error
			if expiresAt, err = time.Parse("2006-01-02", *addCouponExpires); err != nil {
				return err
			}
		}
		return cli.addCoupon(*addCouponCode, *addCouponDiscount, expiresAt)
	case "clearcart":
		if err := clearCartCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *clearCartOwner == "" {
			clearCartCmd.Usage()
			return errHelp
		}
		cli.carts.Service(*clearCartOwner).ClearCart()
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) addCoupon(code string, discount float64, expiresAt time.Time) error {
	_, err := cli.couponSvc.Create(coupon.Coupon{
		Code:      code,
		Discount:  discount,
		Active:    true,
		ExpiresAt: expiresAt,
	})
	return err
}
