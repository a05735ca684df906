package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/localstore"
	infraRepo "app/internal/infra/repository"
	repo "app/internal/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"
	"app/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID string, displayName string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"name": displayName,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envが無くても環境変数だけで動く
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Service: "storefront-api",
		Env:     cfg.GoEnv,
		Level:   cfg.LogLevel,
	})

	//Repository生成（driverで切り替え）
	var (
		userRepo    repo.UserRepository
		sessionRepo repo.SessionRepository
		catalogRepo repo.CatalogRepository
		txm         repo.TransactionManager
	)

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		gormDB, err := db.Connect()
		if err != nil {
			panic(err)
		}
		if err := gormDB.AutoMigrate(
			&model.User{},
			&model.Product{},
			&model.CartLine{},
			&model.Session{},
		); err != nil {
			panic(err)
		}

		userRepo = infraRepo.NewUserGormRepository(gormDB)
		sessionRepo = infraRepo.NewSessionGormRepository(gormDB)
		catalogRepo = infraRepo.NewCatalogGormRepository(gormDB)
		txm = infraRepo.NewTxManagerGorm(gormDB)

	default:
		//JSONファイル1つの軽量ストア（元アプリのローカルストレージ相当）
		st, err := localstore.Open(cfg.StorePath)
		if err != nil {
			panic(err)
		}

		userRepo = localstore.NewUserLocalRepository(st)
		sessionRepo = localstore.NewSessionLocalRepository(st)
		catalogRepo = localstore.NewCatalogLocalRepository(st)
		txm = localstore.NewTxManagerLocal(st)
	}

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, sessionRepo, validator.NewAuthValidator(userRepo), issuer, clock)
	productUC := usecase.NewProductUsecase(catalogRepo, userRepo, idGen)
	cartUC := usecase.NewCartUsecase(txm)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	productH := handler.NewProductHandler(productUC, cartUC)
	cartH := handler.NewCartHandler(cartUC)

	//Server起動
	e := server.New(log)
	server.RegisterRoutes(e, cfg, authH, productH, cartH)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "store_driver", cfg.StoreDriver)
	if err := server.Start(e, addr); err != nil {
		panic(err)
	}
}
