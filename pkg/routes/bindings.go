package routes

import (
	"TapaalTracker/internal/auth"
	"TapaalTracker/internal/cache"
	"TapaalTracker/internal/chatbot"
	"TapaalTracker/internal/config"
	"TapaalTracker/internal/dashboard"
	"TapaalTracker/internal/department"
	"TapaalTracker/internal/mail"
	"TapaalTracker/internal/notification"
	"TapaalTracker/internal/storage"

	"go.uber.org/zap"
)

// Services depend on narrow interfaces; these constructors bind them to the
// Mongo repositories for the fx graph.

func newUserService(repo *auth.UserRepository, cfg *config.AuthConfig, logger *zap.Logger) *auth.UserService {
	return auth.NewUserService(repo, cfg, logger)
}

func newDepartmentService(repo *department.DepartmentRepository, logger *zap.Logger) *department.DepartmentService {
	return department.NewDepartmentService(repo, logger)
}

func newMailService(repo *mail.MailRepository, notifier *notification.NotificationService, logger *zap.Logger) *mail.MailService {
	return mail.NewMailService(repo, notifier, logger)
}

func newMailHandler(service *mail.MailService, files *storage.LocalStorage, logger *zap.Logger) *mail.MailHandler {
	return mail.NewMailHandler(service, files, logger)
}

func newNotificationService(
	repo *notification.NotificationRepository,
	mails *mail.MailRepository,
	departments *department.DepartmentRepository,
	email *config.EmailService,
	logger *zap.Logger,
) *notification.NotificationService {
	return notification.NewNotificationService(repo, mails, departments, email, logger)
}

func newDashboardService(
	mails *mail.MailRepository,
	users *auth.UserRepository,
	departments *department.DepartmentRepository,
	c *cache.Cache,
	logger *zap.Logger,
) *dashboard.DashboardService {
	return dashboard.NewDashboardService(mails, users, departments, c, logger)
}

func newAggregator(
	mails *mail.MailRepository,
	users *auth.UserRepository,
	departments *department.DepartmentRepository,
	logger *zap.Logger,
) *chatbot.Aggregator {
	return chatbot.NewAggregator(mails, users, departments, logger)
}

func newChatService(classifier *chatbot.Classifier, aggregator *chatbot.Aggregator, gemini *chatbot.GeminiClient, logger *zap.Logger) *chatbot.ChatService {
	return chatbot.NewChatService(classifier, aggregator, gemini, logger)
}
