package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware instruments every request: the in-flight gauge is bumped on
// entry and the histogram/counter record the outcome on completion. The
// record runs in a defer so it fires exactly once whether the handler
// returns normally, aborts with an error, or panics; a panic is re-raised
// afterwards so recovery middleware further in still produces the response.
//
// The route label is the matched pattern (e.g. /users/:id) when the router
// resolved one, and the raw path otherwise, keeping label cardinality
// bounded for known routes without losing unmatched paths entirely.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c.inFlight.Inc()
		start := time.Now()

		defer func() {
			rec := recover()

			status := ctx.Writer.Status()
			if rec != nil && !ctx.Writer.Written() {
				status = http.StatusInternalServerError
			}

			route := ctx.FullPath()
			if route == "" {
				route = ctx.Request.URL.Path
			}

			c.observe(ctx.Request.Method, route, status, time.Since(start))
			c.inFlight.Dec()

			if rec != nil {
				panic(rec)
			}
		}()

		ctx.Next()
	}
}
