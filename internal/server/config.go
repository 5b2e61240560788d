package server

import (
	"encoding/json"
	"os"
)

type Config struct {
	Port        string   `json:"port"`
	Ssl         bool     `json:"ssl"`
	SslCert     string   `json:"sslCert"`
	SslKey      string   `json:"sslKey"`
	FileLog     string   `json:"fileLog"`
	CorsOrigins []string `json:"corsOrigins"`
	RateLimit   int64    `json:"rateLimit"`
	WorkerSpeed int      `json:"workerSpeed"`
	WorkerQueue int      `json:"workerQueue"`
}

var GlobalConfig Config
var PathFile string

func ConfigLoad() {
	PathFile = os.Getenv("CONFIG_PATH")
	if PathFile == "" {
		PathFile = "./config.json"
	}

	configFile, err := os.Open(PathFile)
	defer configFile.Close()
	if err == nil {
		jsonParser := json.NewDecoder(configFile)
		jsonParser.Decode(&GlobalConfig)
	}
	if GlobalConfig.Port == "" {
		GlobalConfig.Port = "8000"
	}
	if GlobalConfig.FileLog == "" {
		GlobalConfig.FileLog = "./agritrade.log"
	}
	if GlobalConfig.RateLimit == 0 {
		GlobalConfig.RateLimit = 100
	}
	if len(GlobalConfig.CorsOrigins) == 0 {
		GlobalConfig.CorsOrigins = []string{
			"http://0.0.0.0:3000",
			"http://localhost:3000",
		}
	}

	SetLogger(GlobalConfig.FileLog)
}
