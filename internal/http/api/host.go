package api

import (
	"net"

	"github.com/gin-gonic/gin"
)

// Host identifies the tenant a request belongs to. Every host runs the same
// backend; records are partitioned by the hostname they were created under.
func Host(ctx *gin.Context) string {
	host := ctx.Request.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
