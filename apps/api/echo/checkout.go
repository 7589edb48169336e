package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/soko/core/order"
)

type checkoutApi struct {
	svc *order.Service
}

func registerCheckoutAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *order.Service) {
	api := checkoutApi{svc: svc}

	// provider notifications are authenticated by signature, not JWT
	g.POST("/checkout/callback", api.callback)

	ag := g.Group("", jwt, studentMiddleware())
	ag.POST("/checkout", api.checkout)
	ag.GET("/orders", api.query)
	ag.GET("/orders/:id", api.retrieve)
}

// CheckoutResponse pairs the pending order with the payment session the client
// completes payment through.
type CheckoutResponse struct {
	Order   order.Order          `json:"order"`
	Payment order.PaymentSession `json:"payment"`
}

// Handlers

func (api *checkoutApi) checkout(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	ord, session, err := api.svc.Checkout(ctx.Request().Context(), ident)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, CheckoutResponse{Order: ord, Payment: session})
}

func (api *checkoutApi) callback(ctx echo.Context) error {
	var cb order.Callback
	if err := ctx.Bind(&cb); err != nil {
		return errors.Wrap(err, "binding to Callback")
	}

	ord, err := api.svc.ConfirmPayment(cb)
	if err != nil {
		switch errors.Cause(err) {
		case order.ErrNotFound:
			return errHttpNotFound
		}
		return errHttpForbidden
	}
	return ctx.JSON(http.StatusOK, echo.Map{"order_id": ord.ID, "status": ord.Status})
}

func (api *checkoutApi) query(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	orders, err := api.svc.QueryByOwner(ident.ID)
	if err != nil {
		return errors.Wrap(err, "querying orders")
	}
	return ctx.JSON(http.StatusOK, orders)
}

func (api *checkoutApi) retrieve(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	ord, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == order.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding order by ID")
	}

	// owners see their own orders; admins see all
	if ord.Owner != ident.ID {
		if claims, cErr := getContextClaims(ctx); cErr != nil || !claims.IsAdmin {
			return errHttpNotFound
		}
	}
	return ctx.JSON(http.StatusOK, ord)
}
