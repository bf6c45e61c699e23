package application

import "expvar"

// Exposed on /api/debug/vars.
var (
	ordersCreated       = expvar.NewInt("orders_created")
	ordersStatusChanged = expvar.NewInt("orders_status_changed")
	stockRejections     = expvar.NewInt("stock_rejections")
)
