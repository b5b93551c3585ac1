package conf

// Bootstrap 启动配置，由 kratos config 从 YAML 扫描得到
type Bootstrap struct {
	Server     *Server
	Data       *Data
	Insight    *Insight
	Compliance *Compliance
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

// Data 平面文件存储位置
type Data struct {
	Dir          string `json:"dir"`
	LedgerFile   string `json:"ledger_file"`
	SettingsFile string `json:"settings_file"`
}

// Insight 洞察引擎（外部 LLM 协作方）配置
type Insight struct {
	Llm            *LLM         `json:"llm"`
	RegulationUrls []string     `json:"regulation_urls"`
	Concurrency    *Concurrency `json:"concurrency"`
	Log            *Log         `json:"log"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Compliance 合规引擎的可选覆盖配置文件路径
type Compliance struct {
	RulesFile string `json:"rules_file"`
}
