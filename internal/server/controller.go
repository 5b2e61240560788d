package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/api"
	"agritrade/internal/api/middleware"
)

var App *agritradeapi.App
var AppTracker *agritradeapi.AppTracker

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again in "+time.Until(info.ResetTime).String())
}

func ApiInit() { // Run Api Server
	ConfigLoad()
	App = agritradeapi.Init()
	agritradeapi.ConfigureNotifyPool(GlobalConfig.WorkerSpeed, GlobalConfig.WorkerQueue)
	router := gin.Default()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	store := ratelimit.RedisStore(&ratelimit.RedisOptions{
		RedisClient: redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       1,
		}),
		Rate:  time.Second,
		Limit: uint(GlobalConfig.RateLimit),
	})
	mw := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})
	router.Use(cors.New(cors.Config{
		AllowOrigins:  GlobalConfig.CorsOrigins,
		AllowHeaders:  []string{"Origin", "Access-Control-Allow-Origin", "Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		AllowMethods:  []string{"GET, POST, OPTIONS, PUT, DELETE"},
		MaxAge:        24 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Set("app", App)
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", mw, wsHandler)
	router.GET("/ws/", mw, wsHandler)
	auth := router.Group("/auth/")
	{
		auth.GET("/nonce/:address", mw, api.Nonce)
		auth.GET("/nonce/:address/", mw, api.Nonce)
		auth.POST("/login", mw, api.Login)
		auth.POST("/login/", mw, api.Login)
		auth.POST("/register", mw, api.Register)
		auth.POST("/register/", mw, api.Register)
	}
	users := router.Group("/users/").Use(middleware.Auth())
	{
		users.GET("/me", mw, api.GetUser)
		users.GET("/me/", mw, api.GetUser)
		users.GET("/tx", mw, api.GetTransactionsList)
		users.GET("/tx/", mw, api.GetTransactionsList)
	}
	trade := router.Group("/trading/")
	{
		trade.GET("/queue-counts", mw, api.GetQueueCounts)
		trade.GET("/queue-counts/", mw, api.GetQueueCounts)
	}
	tradeAuth := router.Group("/trading/").Use(middleware.Auth())
	{
		tradeAuth.POST("/buy", mw, api.BuyLot)
		tradeAuth.POST("/buy/", mw, api.BuyLot)
		tradeAuth.POST("/upgrade", mw, api.UpgradePackage)
		tradeAuth.POST("/upgrade/", mw, api.UpgradePackage)
		tradeAuth.GET("/lots", mw, api.GetLots)
		tradeAuth.GET("/lots/", mw, api.GetLots)
	}
	tx := router.Group("/tx/").Use(middleware.Auth())
	{
		tx.POST("/withdraw", mw, api.Withdraw)
		tx.POST("/withdraw/", mw, api.Withdraw)
	}
	admin := router.Group("/admin/").Use(middleware.Auth(), middleware.Admin())
	{
		admin.POST("/deposit", mw, api.Deposit)
		admin.POST("/deposit/", mw, api.Deposit)
		admin.GET("/withdrawals/pending", mw, api.GetPendingWithdrawals)
		admin.GET("/withdrawals/pending/", mw, api.GetPendingWithdrawals)
		admin.POST("/withdrawals/:id/approve", mw, api.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", mw, api.RejectWithdrawal)
		admin.GET("/config", mw, api.GetConfig)
		admin.GET("/config/", mw, api.GetConfig)
		admin.POST("/config", mw, api.UpdateConfig)
		admin.POST("/config/", mw, api.UpdateConfig)
		admin.GET("/users", mw, api.GetUsers)
		admin.GET("/users/", mw, api.GetUsers)
		admin.POST("/users/:id", mw, api.UpdateUser)
		admin.POST("/distribute-autofill", mw, api.DistributeAutofill)
		admin.POST("/distribute-autofill/", mw, api.DistributeAutofill)
		admin.POST("/distribute-autofill/schedule", mw, api.ScheduleAutofill)
		admin.POST("/distribute-autofill/schedule/", mw, api.ScheduleAutofill)
		admin.GET("/queues", mw, api.GetTaskQueues)
		admin.GET("/queues/", mw, api.GetTaskQueues)
	}
	addr := ":" + GlobalConfig.Port
	fmt.Println("[ AgriTrade Backend is up and listening to " + addr + " ]")
	if GlobalConfig.Ssl {
		if err := router.RunTLS(addr, GlobalConfig.SslCert, GlobalConfig.SslKey); err != nil {
			log.Fatal("Failed to run AgriTrade Backend on "+addr+": ", err)
		}
		return
	}
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to run AgriTrade Backend on "+addr+": ", err)
	}
}

func TrackerInit() { // Run Deposit Tracker
	ConfigLoad()
	AppTracker = agritradeapi.InitTracker()
	agritradeapi.ConfigureNotifyPool(GlobalConfig.WorkerSpeed, GlobalConfig.WorkerQueue)
	go TrackDeposits(AppTracker)
	for {
		time.Sleep(10 * time.Minute)
	}
}

func wsHandler(c *gin.Context) {
	// Extract token from query
	token := c.DefaultQuery("token", "")
	user := agritradeapi.User{}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	address, userId, err := api.GetUserFromToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	// Upgrade Connection
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to set websocket upgrade: %+v", err)
		return
	}
	defer conn.Close()
	app := c.MustGet("app").(*agritradeapi.App)
	// Set a pong handler to update the connection's last pong time
	lastPong := time.Now()
	conn.SetPongHandler(func(string) error {
		lastPong = time.Now()
		return nil
	})
	pingPeriod := 3 * time.Second
	timeout := 9 * time.Second
	var mu sync.Mutex // Mutex to synchronize writes to the WebSocket connection
	res := app.Db.Where(
		"id = ? AND wallet_address = ?",
		userId,
		address,
	).First(&user)
	if res.RowsAffected != 1 {
		return
	}
	// Initial snapshot so the dashboard renders without waiting for an event
	snapshot, err := json.Marshal(agritradeapi.WsResponseData{
		Target: agritradeapi.MessageTargetSync,
		User:   user.Data(),
	})
	if err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, snapshot); err != nil {
			fmt.Println("Socket: Failed to send data:", err)
			return
		}
	}
	if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		fmt.Println("Socket: Failed to send ping:", err)
		return
	}
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	done := make(chan struct{})
	go func() {
		defer close(done)
		pubsub := app.Rdb.Subscribe(c, fmt.Sprintf("notification_ch@%d", user.Id))
		defer pubsub.Close()

		ch := pubsub.Channel()
		for msg := range ch {
			mu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload))
			mu.Unlock()
			if err != nil {
				return
			}
		}
	}()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-readerDone:
			return
		case <-ticker.C:
			if time.Since(lastPong) > timeout {
				return
			}
			mu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
