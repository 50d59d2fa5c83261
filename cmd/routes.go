package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	userMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	workerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("worker"))
	adminMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Checkout
	mux.Post("/checkout", userMiddleware.ThenFunc(app.checkoutHandler.StartCheckout))
	mux.Post("/checkout/coupon", userMiddleware.ThenFunc(app.checkoutHandler.ApplyCoupon))
	mux.Get("/checkout/quote", userMiddleware.ThenFunc(app.checkoutHandler.Quote))
	mux.Post("/checkout/order", userMiddleware.ThenFunc(app.checkoutHandler.PlaceOrder))
	mux.Post("/checkout/payment/confirm", userMiddleware.ThenFunc(app.checkoutHandler.ConfirmPayment))
	mux.Post("/checkout/payment/abandon", userMiddleware.ThenFunc(app.checkoutHandler.AbandonPayment))

	// Bookings
	mux.Get("/bookings", userMiddleware.ThenFunc(app.bookingHandler.ListBookings))
	mux.Get("/booking/:id", userMiddleware.ThenFunc(app.bookingHandler.GetBooking))
	mux.Post("/booking/:id/assign", adminMiddleware.ThenFunc(app.bookingHandler.AssignWorker))
	mux.Post("/booking/:id/start/code", workerMiddleware.ThenFunc(app.bookingHandler.RequestStartCode))
	mux.Post("/booking/:id/start", workerMiddleware.ThenFunc(app.bookingHandler.StartBooking))
	mux.Post("/booking/:id/complete/code", workerMiddleware.ThenFunc(app.bookingHandler.RequestCompletionCode))
	mux.Post("/booking/:id/complete", workerMiddleware.ThenFunc(app.bookingHandler.CompleteBooking))
	mux.Post("/booking/:id/cancel", userMiddleware.ThenFunc(app.bookingHandler.CancelBooking))

	// Worker location
	mux.Post("/worker/location", workerMiddleware.ThenFunc(app.locationHandler.UpdateLocation))

	return standardMiddleware.Then(mux)
}
