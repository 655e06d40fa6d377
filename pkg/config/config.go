// Package config는 애플리케이션 설정을 관리하는 패키지입니다.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 인터페이스는 설정 값에 액세스하기 위한 메서드를 정의합니다.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringMap(key string) map[string]interface{}
	IsSet(key string) bool
	// Unmarshal은 전체 설정을 mapstructure 태그가 달린 구조체로 디코딩합니다.
	Unmarshal(out interface{}) error
}

// viperConfig는 viper를 사용하여 Config 인터페이스를 구현합니다.
type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *viperConfig) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *viperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *viperConfig) GetStringMap(key string) map[string]interface{} {
	return c.v.GetStringMap(key)
}

func (c *viperConfig) IsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *viperConfig) Unmarshal(out interface{}) error {
	return c.v.Unmarshal(out)
}

// 설정 디렉토리 경로
const configDir = "configs"

// Load는 지정된 서비스 이름에 해당하는 설정 파일을 로드합니다.
// configs/{APP_ENV}/{service}.yaml을 먼저 찾고, 없으면 configs/example을 시도합니다.
// 환경 변수는 {SERVICE}_ 접두사와 "." -> "_" 치환으로 매핑됩니다 (예: SHOP_STRIPE_API_KEY).
func Load(serviceName string) (Config, error) {
	return LoadFrom(configDir, serviceName)
}

// LoadFrom은 Load와 같지만 설정 루트 디렉토리를 직접 지정합니다.
func LoadFrom(root, serviceName string) (Config, error) {
	v := viper.New()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 기본 환경은 dev
	}

	v.SetConfigType("yaml")

	// 환경 변수 바인딩 설정
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(serviceName)
	v.AddConfigPath(filepath.Join(root, env))

	if err := v.ReadInConfig(); err != nil {
		// configs/example 디렉토리에서 예제 설정 파일 시도
		fallback := viper.New()
		fallback.SetConfigType("yaml")
		fallback.SetConfigName(serviceName)
		fallback.AddConfigPath(filepath.Join(root, "example"))
		if err := fallback.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("설정 파일 로드 실패: %w", err)
		}
		if err := v.MergeConfigMap(fallback.AllSettings()); err != nil {
			return nil, fmt.Errorf("설정 병합 실패: %w", err)
		}
	}

	// AutomaticEnv는 Unmarshal 시 알려진 키에만 적용되므로 모든 키를 명시적으로 바인딩합니다.
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("환경 변수 바인딩 실패 (%s): %w", key, err)
		}
	}

	return &viperConfig{v: v}, nil
}
