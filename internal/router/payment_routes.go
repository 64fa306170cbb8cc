package router

import "github.com/labstack/echo/v4"

// registerPaymentRoutes wires the payment stub under /api/v1/payment.
// The gateway callback accepts both GET redirects and POST webhooks.
func registerPaymentRoutes(api *echo.Group, d Deps) {
	g := api.Group("/payment")

	g.POST("/generate-qr", d.Payments.GenerateQR)
	g.GET("/status/:paymentRefId", d.Payments.CheckStatus)
	g.GET("/callback", d.Payments.Callback)
	g.POST("/callback", d.Payments.Callback)
}
