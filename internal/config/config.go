package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/sirupsen/logrus"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:""`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:""`
	DBName     string `env:"DBName" envDefault:"testing"`
	DBPath     string `env:"DBPath" envDefault:"datas/searchadmin.db"`
	DBPort     string `env:"DBPort" envDefault:"5432"`

	// 角色种子数据，DefaultRole 必须包含在 SeedRoles 中
	DefaultRole string   `env:"DEFAULT_ROLE" envDefault:"user"`
	SeedRoles   []string `env:"SEED_ROLES" envSeparator:"," envDefault:"admin,user,moderator"`

	// 可选的初始用户及其默认视图
	BootstrapUserName     string `env:"BOOTSTRAP_USER_NAME" envDefault:""`
	BootstrapUserEmail    string `env:"BOOTSTRAP_USER_EMAIL" envDefault:""`
	BootstrapUserPassword string `env:"BOOTSTRAP_USER_PASSWORD" envDefault:""`
	BootstrapUserRole     string `env:"BOOTSTRAP_USER_ROLE" envDefault:"admin"`
	BootstrapPageSettings string `env:"BOOTSTRAP_PAGE_SETTINGS" envDefault:"General"`

	// 新视图的默认值
	DefaultDocsPerPage    int      `env:"DEFAULT_DOCS_PER_PAGE" envDefault:"50"`
	DefaultMaxColumnWidth int      `env:"DEFAULT_MAX_COLUMN_WIDTH" envDefault:"50"`
	DefaultFields         []string `env:"DEFAULT_FIELDS" envSeparator:"," envDefault:"tags,comments"`
	DefaultIndices        []string `env:"DEFAULT_INDICES" envSeparator:","`

	ArchiveOnStart bool `env:"ARCHIVE_ON_START" envDefault:"false"`

	StorageType     string `env:"STORAGE_TYPE" envDefault:"local"`
	StorageLocalDir string `env:"STORAGE_LOCAL_DIR" envDefault:"datas/archive"`

	// S3 兼容存储配置
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`

	// 阿里云 OSS 存储配置
	StorageOSSEndpoint        string `env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	StorageCOSBucketURL string `env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `env:"STORAGE_COS_SECRET_KEY"`

	// Cloudflare R2 存储配置
	StorageR2AccountID       string `env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `env:"STORAGE_R2_REGION" envDefault:"auto"`
	StorageR2Bucket          string `env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `env:"STORAGE_R2_SECRET_ACCESS_KEY"`
}

func ParseConfig() (Config, error) {
	var Conf Config
	err := env.Parse(&Conf)
	if err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	logrus.WithFields(logrus.Fields{
		"db_type":      Conf.DBType,
		"default_role": Conf.DefaultRole,
		"storage_type": Conf.StorageType,
	}).Debug("configuration loaded")
	return Conf, nil
}
