package inbound

import (
	"github.com/gin-gonic/gin"
)

// CollaborationHttpPort defines collaboration HTTP handlers.
type CollaborationHttpPort interface {
	// Create handles opening a collaboration request.
	Create(c *gin.Context)

	// Get handles reading one collaboration.
	Get(c *gin.Context)

	// List handles listing the caller's collaborations.
	List(c *gin.Context)

	// Dashboard handles the grouped dashboard view.
	Dashboard(c *gin.Context)

	// Negotiation
	Reject(c *gin.Context)
	CounterOffer(c *gin.Context)
	AcceptOffer(c *gin.Context)

	// Execution
	ConfirmPayment(c *gin.Context)
	StartWork(c *gin.Context)
	SubmitWork(c *gin.Context)
	ConfirmCompletion(c *gin.Context)
	RequestPayout(c *gin.Context)
	CompletePayout(c *gin.Context)

	// Disputes
	RaiseDispute(c *gin.Context)
	ReviewDispute(c *gin.Context)
	DecideDispute(c *gin.Context)
	ResolveRefund(c *gin.Context)
}

// HealthHttpPort defines liveness handlers.
type HealthHttpPort interface {
	Health(c *gin.Context)
}
