package main

import (
	"github.com/Unleash/unleash-client-go/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	featureLandingsUpload   = "fes.landings.upload"
	featureCopyCertificate  = "fes.catch-certificate.copy"
	featureArrivalTransport = "fes.storage-document.arrival-transport"
)

type featureFlags interface {
	IsEnabled(name string) bool
}

// fallbackFlags answers from configuration alone
type fallbackFlags struct{}

func (fallbackFlags) IsEnabled(name string) bool {
	return viper.GetBool("features." + name)
}

// unleashFlags asks Unleash, falling back to configuration until the
// repository is ready or when a flag is unknown
type unleashFlags struct {
	client *unleash.Client
}

func newUnleashFlags(logger *zap.Logger) (*unleashFlags, error) {
	opts := []unleash.ConfigOption{
		unleash.WithAppName(viper.GetString("service_name")),
		unleash.WithUrl(viper.GetString("unleash_path")),
		unleash.WithListener(BasicListener{logger: logger}),
		unleash.WithDisableMetrics(true),
	}
	if token := viper.GetString("unleash.api_token"); token != "" {
		opts = append(opts, unleash.WithCustomHeaders(map[string][]string{"Authorization": {token}}))
	}
	client, err := unleash.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &unleashFlags{client: client}, nil
}

func (u *unleashFlags) IsEnabled(name string) bool {
	return u.client.IsEnabled(name, unleash.WithFallback(viper.GetBool("features."+name)))
}

func (u *unleashFlags) Close() error {
	return u.client.Close()
}
