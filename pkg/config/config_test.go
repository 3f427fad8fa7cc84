package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaultsMatchPortalCredentials(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, "Raghubir", cfg.Auth.TeacherUsername)
	assert.Equal(t, "SIDHARTH", cfg.Auth.TeacherPassphrase)
	assert.Equal(t, "Sidharth", cfg.Auth.StudentPassphrase)
	assert.Equal(t, 60000.0, cfg.Fees.StudentTarget)
	assert.Equal(t, 180000.0, cfg.Fees.TeacherTarget)
	assert.Equal(t, 20*time.Second, cfg.Insight.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
}

func TestOverridesAreNormalised(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("STORAGE_DRIVER", "REDIS")
	v.Set("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	v.Set("INSIGHT_TIMEOUT", "not-a-duration")
	cfg := fromViper(v)

	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 20*time.Second, cfg.Insight.Timeout)
}
