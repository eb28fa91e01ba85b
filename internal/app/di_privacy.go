package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/privacyhub/privacy-gateway/internal/crypto/domain"
	cryptoService "github.com/privacyhub/privacy-gateway/internal/crypto/service"
	"github.com/privacyhub/privacy-gateway/internal/gateway"
	gatewayHTTP "github.com/privacyhub/privacy-gateway/internal/gateway/http"
	"github.com/privacyhub/privacy-gateway/internal/metrics"
	"github.com/privacyhub/privacy-gateway/internal/pii/detector"
	tokenRepository "github.com/privacyhub/privacy-gateway/internal/token/repository"
	tokenService "github.com/privacyhub/privacy-gateway/internal/token/service"
	tokenUsecase "github.com/privacyhub/privacy-gateway/internal/token/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// MasterKeyChain returns the master key chain loaded from environment variables.
func (c *Container) MasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	var err error
	c.masterKeyChainInit.Do(func() {
		c.masterKeyChain, err = c.initMasterKeyChain()
		if err != nil {
			c.initErrors["masterKeyChain"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyChain"]; exists {
		return nil, storedErr
	}
	return c.masterKeyChain, nil
}

// TokenRepository returns the token repository for the configured store backend.
func (c *Container) TokenRepository() (tokenUsecase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// TokenStore returns the token store use case.
func (c *Container) TokenStore() (tokenUsecase.TokenStore, error) {
	var err error
	c.tokenStoreInit.Do(func() {
		c.tokenStore, err = c.initTokenStore()
		if err != nil {
			c.initErrors["tokenStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenStore"]; exists {
		return nil, storedErr
	}
	return c.tokenStore, nil
}

// Detector returns the PII detector.
func (c *Container) Detector() detector.Detector {
	c.piiDetectorInit.Do(func() {
		c.piiDetector = detector.NewDefaultDetector(c.config.DetectorMinConfidence)
	})
	return c.piiDetector
}

// PlaceholderCodec returns the placeholder codec built from the configured delimiters.
func (c *Container) PlaceholderCodec() (*gateway.PlaceholderCodec, error) {
	var err error
	c.placeholderCodecInit.Do(func() {
		c.placeholderCodec, err = gateway.NewPlaceholderCodec(
			c.config.PlaceholderOpen,
			c.config.PlaceholderClose,
		)
		if err != nil {
			c.initErrors["placeholderCodec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["placeholderCodec"]; exists {
		return nil, storedErr
	}
	return c.placeholderCodec, nil
}

// Gateway returns the privacy gateway use case.
func (c *Container) Gateway() (gateway.Gateway, error) {
	var err error
	c.gatewayInit.Do(func() {
		c.gateway, err = c.initGateway()
		if err != nil {
			c.initErrors["gateway"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gateway"]; exists {
		return nil, storedErr
	}
	return c.gateway, nil
}

// PrivacyHandler returns the HTTP handler for the privacy endpoints.
func (c *Container) PrivacyHandler() (*gatewayHTTP.PrivacyHandler, error) {
	var err error
	c.privacyHandlerInit.Do(func() {
		var g gateway.Gateway
		g, err = c.Gateway()
		if err != nil {
			c.initErrors["privacyHandler"] = err
			return
		}
		c.privacyHandler = gatewayHTTP.NewPrivacyHandler(g, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["privacyHandler"]; exists {
		return nil, storedErr
	}
	return c.privacyHandler, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}

		c.businessMetrics, err = metrics.NewBusinessMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// initMasterKeyChain loads the master key chain, optionally unwrapping keys
// through the configured KMS keeper.
func (c *Container) initMasterKeyChain() (*cryptoDomain.MasterKeyChain, error) {
	ctx := context.Background()

	var keeper cryptoDomain.KMSKeeper
	if c.config.KMSKeyURI != "" {
		k, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		keeper = k
	}

	masterKeyChain, err := cryptoDomain.LoadMasterKeyChainFromEnv(ctx, keeper)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key chain: %w", err)
	}
	return masterKeyChain, nil
}

// initTokenRepository creates the token repository based on the store backend
// and database driver.
func (c *Container) initTokenRepository() (tokenUsecase.TokenRepository, error) {
	if c.config.StoreBackend == "memory" {
		return tokenRepository.NewMemoryTokenRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return tokenRepository.NewPostgreSQLTokenRepository(db), nil
	case "mysql":
		return tokenRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenStore creates the token store with all its dependencies.
func (c *Container) initTokenStore() (tokenUsecase.TokenStore, error) {
	repo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token store: %w", err)
	}

	masterKeyChain, err := c.MasterKeyChain()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key chain for token store: %w", err)
	}

	algorithm, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption algorithm: %w", err)
	}

	return tokenUsecase.NewTokenStore(
		repo,
		c.AEADManager(),
		masterKeyChain,
		tokenUsecase.NewSHA256HashService(),
		tokenService.NewTokenIDGenerator(),
		algorithm,
		c.config.TokenIDLength,
		c.config.TokenTTL,
	), nil
}

// initGateway creates the privacy gateway, wrapped with business metrics
// when metrics are enabled.
func (c *Container) initGateway() (gateway.Gateway, error) {
	store, err := c.TokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get token store for gateway: %w", err)
	}

	codec, err := c.PlaceholderCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get placeholder codec for gateway: %w", err)
	}

	tokenizer := gateway.NewTokenizer(store, codec)
	restorer := gateway.NewRestorer(store, codec)
	g := gateway.NewGateway(c.Detector(), tokenizer, restorer, store)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for gateway: %w", err)
	}

	return gateway.NewGatewayWithMetrics(g, businessMetrics), nil
}
