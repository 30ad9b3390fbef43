// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"taskboard/internal/delivery/http/middleware"
	"taskboard/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	IdentityHandler  *handler.IdentityHandler
	WorkspaceHandler *handler.WorkspaceHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	identityHandler  *handler.IdentityHandler
	workspaceHandler *handler.WorkspaceHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		identityHandler:  params.IdentityHandler,
		workspaceHandler: params.WorkspaceHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Identity routes; refresh and logout authenticate with the refresh
	// token itself, not the access token.
	identityGroup := e.Group("/identity")
	{
		identityGroup.POST("/register", r.identityHandler.Register)
		identityGroup.POST("/login", r.identityHandler.Login)
		identityGroup.PUT("/refresh", r.identityHandler.Refresh)
		identityGroup.DELETE("/logout", r.identityHandler.Logout)
	}

	identityProtected := e.Group("/identity")
	identityProtected.Use(r.authMiddleware.Authenticate)
	{
		identityProtected.GET("/me", r.identityHandler.Me)
		identityProtected.GET("/users", r.identityHandler.ListUsers)
	}

	// Board routes, all behind the access token.
	workspaceGroup := e.Group("/workspaces")
	workspaceGroup.Use(r.authMiddleware.Authenticate)
	{
		workspaceGroup.GET("", r.workspaceHandler.List)
		workspaceGroup.POST("", r.workspaceHandler.Create)
		workspaceGroup.GET("/:name", r.workspaceHandler.GetByName)
		workspaceGroup.PUT("/:workspaceId/groups/:groupId", r.workspaceHandler.UpdateGroup)
		workspaceGroup.POST("/:workspaceId/tasks", r.workspaceHandler.CreateTask)
		workspaceGroup.PATCH("/:workspaceId/groups/:groupId/tasks/:taskId", r.workspaceHandler.UpdateTask)
	}

	taskGroup := e.Group("/tasks")
	taskGroup.Use(r.authMiddleware.Authenticate)
	{
		taskGroup.GET("/:taskId", r.workspaceHandler.GetTask)
		taskGroup.DELETE("/:taskId", r.workspaceHandler.DeleteTask)
	}
}
