package botapp

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/olegsv/finkurs/core/config"
	tg "github.com/olegsv/finkurs/core/telegram"
	"github.com/olegsv/finkurs/core/telegram/commands"
	tghelpers "github.com/olegsv/finkurs/core/telegram/helpers"
	"github.com/olegsv/finkurs/core/telegram/middleware"
	"github.com/olegsv/finkurs/core/telegram/router"
	"github.com/olegsv/finkurs/core/telegram/state"
	"github.com/olegsv/finkurs/internal/clients"
	"github.com/olegsv/finkurs/internal/domain"
	"github.com/olegsv/finkurs/internal/storage"
)

// App composes the bot: HTTP clients for the currency, rate and role
// services, direct repositories for users and operations, and the dialog
// engine on top of the session store.
type App struct {
	cfg *coreconfig.Config
	reg *tg.Registry

	sessions state.Manager
	engine   *engine

	currencies CurrencyService
	rates      RateService
	roles      RoleService
	users      UserStore
	operations OperationStore
}

// New wires the application from configuration and an open database handle.
func New(cfg *coreconfig.Config, db *sqlx.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("botapp: nil config provided")
	}
	if db == nil {
		return nil, fmt.Errorf("botapp: nil database handle provided")
	}

	sessions, err := buildSessions(cfg.Session)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Services.Timeout()
	a := &App{
		cfg:        cfg,
		reg:        tg.NewRegistry(),
		sessions:   sessions,
		currencies: clients.NewCurrencyClient(cfg.Services.CurrencyURL, timeout),
		rates:      clients.NewRateClient(cfg.Services.RateURL, timeout),
		roles:      clients.NewRoleClient(cfg.Services.RoleURL, timeout),
		users:      storage.NewUserRepo(db),
		operations: storage.NewOperationRepo(db),
	}
	a.engine = &engine{
		sessions:   a.sessions,
		currencies: a.currencies,
		users:      a.users,
		operations: a.operations,
	}

	a.registerCommands()
	a.registerCallbacks()
	a.reg.SetTextFallback(a.handleManageButton)

	return a, nil
}

func buildSessions(cfg coreconfig.SessionConfig) (state.Manager, error) {
	switch cfg.Backend {
	case coreconfig.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		var opts []state.RedisOption
		if ttl := cfg.IdleTTL(); ttl > 0 {
			opts = append(opts, state.WithTTL(ttl))
		}
		return state.NewRedisManager(client, opts...), nil
	case coreconfig.SessionBackendMemory, "":
		var opts []state.MemoryOption
		if ttl := cfg.IdleTTL(); ttl > 0 {
			opts = append(opts, state.WithIdleTimeout(ttl))
		}
		return state.NewMemoryManager(opts...), nil
	default:
		return nil, fmt.Errorf("botapp: unsupported session backend %q", cfg.Backend)
	}
}

func (a *App) registerCommands() {
	a.reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Show what the bot can do",
	})
	a.reg.RegisterCommand("/get_currencies", commands.Command{
		Handler:     a.handleGetCurrencies,
		Description: "List saved currencies and their rates",
	})
	a.reg.RegisterCommand("/convert", commands.Command{
		Handler:     a.handleConvert,
		Description: "Convert an amount to rubles",
	})
	a.reg.RegisterCommand("/save_currency", commands.Command{
		Handler:     a.handleSaveCurrency,
		Description: "Save a new currency",
		AdminOnly:   true,
	})
	a.reg.RegisterCommand("/manage_currency", commands.Command{
		Handler:     a.handleManageCurrency,
		Description: "Add, update or delete currencies",
		AdminOnly:   true,
	})
	a.reg.RegisterCommand("/set_role", commands.Command{
		Handler:     a.handleSetRole,
		Description: "Assign a role to a user",
		AdminOnly:   true,
		Hidden:      true,
	})
	a.reg.RegisterCommand("/reg", commands.Command{
		Handler:     a.handleRegister,
		Description: "Register to track operations",
	})
	a.reg.RegisterCommand("/add_operation", commands.Command{
		Handler:     a.handleAddOperation,
		Description: "Record an income or expense",
	})
	a.reg.RegisterCommand("/operations", commands.Command{
		Handler:     a.handleOperations,
		Description: "Show your operation history",
	})
	a.reg.RegisterCommand("/lk", commands.Command{
		Handler:     a.handleProfile,
		Description: "Show your profile",
	})
	a.reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Cancel the current action",
	})
}

func (a *App) registerCallbacks() {
	_ = a.reg.RegisterCallback(cbOperationKind, a.handleOperationKind)
	_ = a.reg.RegisterCallback(cbOpsCurrency, a.handleOperationsCurrency)
}

// CoreConfig implements cmd.ConfigCarrier.
func (a *App) CoreConfig() *coreconfig.Config { return a.cfg }

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	rejectHandler := func(c tele.Context) error {
		return tghelpers.SendText(c, msgAccessDenied)
	}

	adminOpts := middleware.AdminOptions{
		AdminID: a.cfg.Telegram.AdminID,
		Resolve: func(ctx context.Context, userID int64) (bool, error) {
			role, err := a.roles.Check(ctx, userID)
			if err != nil {
				return false, err
			}
			return role == domain.RoleAdmin, nil
		},
		OnReject: rejectHandler,
	}

	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminID:       adminOpts.AdminID,
		ResolveAdmin:  adminOpts.Resolve,
		OnAdminReject: adminOpts.OnReject,
	})
	routes = append(routes, router.TextRoutes(a.engine, a.reg, router.TextOptions{
		Admin: adminOpts,
		UnknownText: func(c tele.Context) error {
			return tghelpers.SendText(c, msgUnknownRequest)
		},
	})...)
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
	}, nil
}
