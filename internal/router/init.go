package router

import (
	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/container"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/blogsphere/internal/infrastructure/postgres"
	"github.com/oksasatya/blogsphere/internal/infrastructure/search"
	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/internal/router/modules"
)

type repos struct {
	Users    repo.UserRepository
	Audit    repo.AuditRepository
	Blogs    repo.BlogRepository
	Comments repo.CommentRepository
	Likes    repo.LikeRepository
	Follows  repo.FollowRepository
}

type services struct {
	Users      *application.UserService
	Blogs      *application.BlogService
	Engagement *application.EngagementService
	Social     *application.SocialService
	Media      *application.MediaService
}

func buildRepos() repos {
	pool := container.GetPGPool()
	return repos{
		Users:    pginfra.NewUserRepository(pool),
		Audit:    pginfra.NewAuditRepository(pool),
		Blogs:    pginfra.NewBlogRepository(pool),
		Comments: pginfra.NewCommentRepository(pool),
		Likes:    pginfra.NewLikeRepository(pool),
		Follows:  pginfra.NewFollowRepository(pool),
	}
}

// buildServices wires optional adapters only when their client exists, so
// the service sees a nil interface rather than a typed nil.
func buildServices(r repos) services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	images := container.GetImageStore()

	deps := application.UserDeps{
		Users:           r.Users,
		Audit:           r.Audit,
		JWT:             container.GetJWT(),
		Images:          images,
		Logger:          logger,
		AppName:         cfg.AppName,
		DefaultAvatar:   cfg.DefaultAvatarURL,
		ResetURL:        cfg.ResetPasswordURL,
		MailSendEnabled: cfg.MailSendEnabled,
	}
	if rdb := container.GetRedis(); rdb != nil {
		deps.Resets = cache.NewResetTokens(rdb, application.ResetTokenTTL)
	}
	if es := container.GetES(); es != nil {
		deps.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		deps.Jobs = pub
	}

	return services{
		Users:      application.NewUserService(deps),
		Blogs:      application.NewBlogService(r.Blogs, r.Comments, r.Likes, images, container.GetImageGenerator(), logger),
		Engagement: application.NewEngagementService(r.Blogs, r.Comments, r.Likes),
		Social:     application.NewSocialService(r.Users, r.Blogs, r.Follows),
		Media:      application.NewMediaService(images),
	}
}

// InitModules wires repositories, services and handlers from the container
// and adds every feature module to the registry. Call once at startup.
func InitModules(reg *Registry) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()

	r := buildRepos()
	svc := buildServices(r)
	guards := modules.Guards{
		Strict:   middleware.Strict(r.Users, container.GetJWT()),
		Optional: middleware.Optional(r.Users, container.GetJWT()),
	}

	reg.Add(modules.NewDebugModule(rdb, cfg.DebugMetricsEnabled))
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Users, cfg.CookieDomain, cfg.CookieSecure), guards, rdb))
	reg.Add(modules.NewBlogModule(handlers.NewBlogHandler(svc.Blogs), handlers.NewEngagementHandler(svc.Engagement), guards, rdb))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Social, svc.Users), guards, rdb))
	reg.Add(modules.NewUploadModule(handlers.NewUploadHandler(svc.Media), guards, rdb))
}
