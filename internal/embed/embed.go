package embed

import (
	_ "embed"
)

// CompanyTickersJSON 嵌入的公司名到股票代码映射数据
// 编译时从 company_tickers.json 嵌入到二进制文件中，数组顺序即匹配优先级
//
//go:embed company_tickers.json
var CompanyTickersJSON []byte
