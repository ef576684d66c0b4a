package config

import (
	"NovelNest-Backend/internal/api/handlers"
	"NovelNest-Backend/internal/api/routes"
	"NovelNest-Backend/internal/middleware"
	"NovelNest-Backend/internal/utils"
	"NovelNest-Backend/pkg/chapter"
	"NovelNest-Backend/pkg/donation"
	"NovelNest-Backend/pkg/jwt"
	"NovelNest-Backend/pkg/midtrans"
	"NovelNest-Backend/pkg/payment"
	"NovelNest-Backend/pkg/user"
	"NovelNest-Backend/pkg/wallet"
	"NovelNest-Backend/pkg/withdraw"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// Repository
	userRepository := user.NewUserRepository(db)
	walletRepository := wallet.NewWalletRepository(db)
	paymentRepository := payment.NewPaymentRepository(db)
	chapterRepository := chapter.NewChapterRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	withdrawRepository := withdraw.NewWithdrawRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	walletService := wallet.NewWalletService(walletRepository)
	midtransService := midtrans.NewMidtransService()
	paymentService := payment.NewPaymentService(paymentRepository, walletService, midtransService)
	chapterService := chapter.NewChapterService(chapterRepository, walletService)
	donationService := donation.NewDonationService(donationRepository, userRepository, walletService)
	withdrawService := withdraw.NewWithdrawService(withdrawRepository, walletService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	walletHandler := handlers.NewWalletHandler(walletService, validator)
	paymentHandler := handlers.NewPaymentHandler(paymentService, validator)
	chapterHandler := handlers.NewChapterHandler(chapterService, validator)
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	withdrawHandler := handlers.NewWithdrawHandler(withdrawService, validator)

	// routes
	routesConfig := routes.Config{
		App:             app,
		UserHandler:     userHandler,
		WalletHandler:   walletHandler,
		PaymentHandler:  paymentHandler,
		ChapterHandler:  chapterHandler,
		DonationHandler: donationHandler,
		WithdrawHandler: withdrawHandler,
		Middleware:      middlewares,
		JWTService:      jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
