package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/cart"
	"github.com/trezcool/soko/core/coupon"
)

type cartApi struct {
	carts     *cart.Registry
	couponSvc *coupon.Service
	validate  *validator.Validate
}

func registerCartAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	carts *cart.Registry,
	couponSvc *coupon.Service,
	validate *validator.Validate,
) {
	api := cartApi{
		carts:     carts,
		couponSvc: couponSvc,
		validate:  validate,
	}

	cg := g.Group("/cart", jwt, studentMiddleware())
	cg.GET("", api.retrieve)
	cg.DELETE("", api.clear)
	cg.GET("/count", api.count)
	cg.POST("/items", api.addItem)
	cg.GET("/items/:courseId", api.containsItem)
	cg.DELETE("/items/:courseId", api.removeItem)
	cg.POST("/coupon", api.applyCoupon)
	cg.DELETE("/coupon", api.removeCoupon)
}

// service resolves the authenticated caller's cart. The token subject is the
// owner key.
func (api *cartApi) service(ctx echo.Context) (*cart.Service, error) {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return nil, err
	}
	return api.carts.Service(ident.ID), nil
}

// Handlers

func (api *cartApi) retrieve(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, svc.GetCart())
}

func (api *cartApi) clear(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	svc.ClearCart()
	return ctx.JSON(http.StatusOK, svc.GetCart())
}

func (api *cartApi) count(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": svc.CartItemCount()})
}

func (api *cartApi) addItem(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}

	var data cart.NewItem
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewItem")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	svc.AddToCart(data)
	return ctx.JSON(http.StatusCreated, svc.GetCart())
}

func (api *cartApi) containsItem(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	courseID := ctx.Param("courseId")
	return ctx.JSON(http.StatusOK, echo.Map{
		"courseId": courseID,
		"inCart":   svc.IsInCart(courseID),
	})
}

func (api *cartApi) removeItem(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	svc.RemoveFromCart(ctx.Param("courseId"))
	return ctx.JSON(http.StatusOK, svc.GetCart())
}

func (api *cartApi) applyCoupon(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}

	var data CouponRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CouponRequest")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	cpn, err := api.couponSvc.Resolve(data.Code)
	if err != nil {
		switch errors.Cause(err) {
		case coupon.ErrNotFound, coupon.ErrExpired, coupon.ErrInactive:
			return core.NewValidationError(nil, core.FieldError{Field: "code", Error: errors.Cause(err).Error()})
		}
		return errors.Wrap(err, "resolving coupon")
	}

	svc.ApplyCoupon(cpn.Code, &cpn.Discount)
	return ctx.JSON(http.StatusOK, svc.GetCart())
}

func (api *cartApi) removeCoupon(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	svc.RemoveCoupon()
	return ctx.JSON(http.StatusOK, svc.GetCart())
}

// CouponRequest is the coupon application payload.
type CouponRequest struct {
	Code string `json:"code" validate:"required,couponcode"`
}
