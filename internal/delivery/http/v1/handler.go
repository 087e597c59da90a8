package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-agent/internal/agent"
	"github.com/adanyl0v/go-todo-agent/internal/services"
)

type Handler interface {
	HandleRoot(c *gin.Context)
	HandleHealth(c *gin.Context)
	HandleChatHealth(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleFilterTasks(c *gin.Context)
	HandleToggleTaskStatus(c *gin.Context)

	HandleChat(c *gin.Context)
	HandleWebSocket(c *gin.Context)

	HandleRequestID(c *gin.Context)
	HandleRequestLogging(c *gin.Context)
	HandleMetrics(c *gin.Context)
}

// ChatAgent runs one chat exchange.
type ChatAgent interface {
	Handle(ctx context.Context, input, conversationID string) *agent.Exchange
}

// Pinger reports whether the task store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger   zerolog.Logger
	tasks    services.TaskService
	agent    ChatAgent
	store    Pinger
	upgrader websocket.Upgrader
}

func New(
	logger zerolog.Logger,
	taskService services.TaskService,
	chatAgent ChatAgent,
	store Pinger,
	allowedOrigins []string,
) Handler {
	return &handlerImpl{
		logger: logger.With().Str("component", "http").Logger(),
		tasks:  taskService,
		agent:  chatAgent,
		store:  store,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},
	}
}

// RegisterRoutes mounts every endpoint on router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleRoot)
	router.GET("/health", h.HandleHealth)
	router.GET("/ws", h.HandleWebSocket)

	api := router.Group("/api")

	tasks := api.Group("/tasks")
	tasks.GET("", h.HandleGetTasks)
	tasks.POST("", h.HandleCreateTask)
	tasks.POST("/filter", h.HandleFilterTasks)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PUT("/:id", h.HandleUpdateTask)
	tasks.DELETE("/:id", h.HandleDeleteTask)
	tasks.PATCH("/:id/toggle", h.HandleToggleTaskStatus)

	chat := api.Group("/chat")
	chat.POST("", h.HandleChat)
	chat.GET("/health", h.HandleChatHealth)
}
