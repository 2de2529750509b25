package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/startsmart/property/apps/api/echo"
	"github.com/startsmart/property/core"
	"github.com/startsmart/property/core/assistant"
	"github.com/startsmart/property/core/course"
	"github.com/startsmart/property/core/deal"
	"github.com/startsmart/property/core/user"
	cachesvc "github.com/startsmart/property/services/cache"
	emailsvc "github.com/startsmart/property/services/email"
	genaisvc "github.com/startsmart/property/services/genai"
	logsvc "github.com/startsmart/property/services/logger"
	"github.com/startsmart/property/storage/database"
	inmemdb "github.com/startsmart/property/storage/database/inmem"
	"github.com/startsmart/property/storage/database/sqlxrepos"
)

type repositories struct {
	user   user.Repository
	course course.Repository
	deal   deal.Repository
	close  func() error
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up storage
	repos, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = repos.close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	cache, closeCache := setUpCache(conf, logger)
	defer func() {
		if err = closeCache(); err != nil {
			logger.Error(fmt.Sprintf("closing cache: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(repos.user, mailSvc, conf)
	courseSvc := course.NewService(repos.course, repos.user)
	dealSvc := deal.NewService(repos.deal, mailSvc)
	assistantSvc := assistant.NewService(setUpGenerator(conf, logger), cache, logger, conf)
	defer assistantSvc.Close()

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	core.ParseEmailTemplates(logger)

	user.LoadCommonPasswords(logger)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:         conf,
			Logger:       logger,
			UserSvc:      usrSvc,
			CourseSvc:    courseSvc,
			DealSvc:      dealSvc,
			AssistantSvc: assistantSvc,
			Validate:     validate,
			Translator:   translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStorage opens postgres, or the in-memory database when Database.InMemory is set.
func setUpStorage(conf *core.Config) (repositories, error) {
	if conf.Database.InMemory {
		db := inmemdb.Open()
		return repositories{
			user:   inmemdb.NewUserRepository(db),
			course: inmemdb.NewCourseRepository(db),
			deal:   inmemdb.NewDealRepository(db),
			close:  func() error { return nil },
		}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return repositories{}, err
	}
	db, err := database.Open(conf)
	if err != nil {
		return repositories{}, err
	}
	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return repositories{}, err
	}
	return repositories{
		user:   sqlxrepos.NewUserRepository(db),
		course: sqlxrepos.NewCourseRepository(db),
		deal:   sqlxrepos.NewDealRepository(db),
		close:  db.Close,
	}, nil
}

// setUpCache connects to redis when configured, and falls back to an in-process cache.
func setUpCache(conf *core.Config, logger core.Logger) (assistant.Cache, func() error) {
	if conf.Redis.Addr == "" {
		return cachesvc.NewMemoryCache(), func() error { return nil }
	}

	rc := cachesvc.NewRedisCache(conf, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logger.Warn(fmt.Sprintf("redis unreachable, caching in memory: %v", err), err)
		_ = rc.Close()
		return cachesvc.NewMemoryCache(), func() error { return nil }
	}
	return rc, rc.Close
}

// setUpGenerator returns the Gemini generator, or an offline one when no API key is configured.
func setUpGenerator(conf *core.Config, logger core.Logger) assistant.Generator {
	if conf.Assistant.APIKey == "" {
		logger.Warn("assistant.apiKey is not set: the strategist is offline")
		return assistant.NewOfflineGenerator()
	}
	gen, err := genaisvc.NewGenerator(context.Background(), conf)
	if err != nil {
		logger.Error(fmt.Sprintf("creating generator: %v", err), err)
		return assistant.NewOfflineGenerator()
	}
	return gen
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
