// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package config

import (
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

type MongoConf struct {
	Url        string
	Database   string
	Collection string `json:",default=products"`
}

type ChatModelConf struct {
	BaseUrl string `json:",optional"`
	APIKey  string `json:",optional"`
	Model   string `json:",optional"`
}

type KafkaConf struct {
	Brokers       []string `json:",optional"`
	ProductsTopic string   `json:",optional"`
	Group         string   `json:",optional"`
}

type AuthConf struct {
	AccessSecret string `json:",optional"`
}

type EngineConf struct {
	ForceLanguage       string `json:",optional,options=|en|de"`
	HistoryLimit        int    `json:",default=12"`
	DefaultK            int    `json:",default=3"`
	MaxK                int    `json:",default=5"`
	RetrieveLimit       int64  `json:",default=120"`
	BestsellerLimit     int64  `json:",default=6"`
	TokenMinPrefix      int    `json:",default=4"`
	ShortlistLimit      int    `json:",default=30"`
	FrontendBaseUrl     string `json:",optional"`
	SessionTTLSeconds   int    `json:",default=1800"`
	SessionLimit        int    `json:",default=10000"`
	ModelTimeoutSeconds int    `json:",default=12"`
}

type Config struct {
	rest.RestConf

	LogConf logx.LogConf

	Mongo     MongoConf
	ChatModel ChatModelConf
	KafkaConf KafkaConf
	Auth      AuthConf
	Engine    EngineConf
}
