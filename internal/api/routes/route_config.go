package routes

import (
	"NovelNest-Backend/internal/api/handlers"
	"NovelNest-Backend/internal/middleware"
	"NovelNest-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App             *fiber.App
	UserHandler     handlers.UserHandler
	WalletHandler   handlers.WalletHandler
	PaymentHandler  handlers.PaymentHandler
	ChapterHandler  handlers.ChapterHandler
	DonationHandler handlers.DonationHandler
	WithdrawHandler handlers.WithdrawHandler
	Middleware      middleware.Middleware
	JWTService      jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Wallet()
	c.Payment()
	c.Chapter()
	c.Donation()
	c.Withdraw()
	c.Admin()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.GetMe)
	}
}

func (c *Config) Wallet() {
	wallet := c.App.Group("/api/v1/wallet", c.Middleware.AuthMiddleware(c.JWTService))
	{
		wallet.Get("", c.WalletHandler.GetWallet)
		wallet.Get("/history", c.WalletHandler.GetTransactionHistory)
	}
}

func (c *Config) Payment() {
	payment := c.App.Group("/api/v1/payments", c.Middleware.AuthMiddleware(c.JWTService))
	{
		payment.Post("", c.PaymentHandler.CreatePaymentOrder)
		payment.Get("", c.PaymentHandler.GetPaymentOrders)
		payment.Post("/:id/confirm", c.PaymentHandler.ConfirmPayment)
	}
}

func (c *Config) Chapter() {
	chapter := c.App.Group("/api/v1/chapters", c.Middleware.AuthMiddleware(c.JWTService))
	{
		chapter.Post("/unlock", c.ChapterHandler.UnlockChapter)
		chapter.Get("/unlocked", c.ChapterHandler.GetUnlockedChapters)
	}
}

func (c *Config) Donation() {
	donation := c.App.Group("/api/v1/donations", c.Middleware.AuthMiddleware(c.JWTService))
	{
		donation.Post("", c.DonationHandler.Donate)
		donation.Get("", c.DonationHandler.GetUserDonations)
	}
}

func (c *Config) Withdraw() {
	withdraw := c.App.Group("/api/v1/withdrawals", c.Middleware.AuthMiddleware(c.JWTService))
	{
		withdraw.Post("", c.WithdrawHandler.RequestWithdraw)
		withdraw.Get("", c.WithdrawHandler.GetUserWithdrawals)
		withdraw.Post("/:id/cancel", c.WithdrawHandler.CancelWithdraw)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group(
		"/api/v1/admin",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.AdminOnly(),
	)
	{
		admin.Get("/payouts", c.WithdrawHandler.ListEligiblePayouts)
		admin.Post("/payouts/:id/confirm", c.WithdrawHandler.ConfirmPayout)
		admin.Post("/payouts/:id/reject", c.WithdrawHandler.RejectPayout)
		admin.Post("/wallet/adjust", c.WalletHandler.AdjustBalance)
		admin.Post("/wallet/reward", c.WalletHandler.RewardCoins)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/midtrans", c.PaymentHandler.MidtransWebhookHandler)
}
