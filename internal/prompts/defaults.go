package prompts

const defaultExtraction = `你是一个专业的FAQ提取助手。请从给定的文本中提取所有可能的问题-答案对。

请从以下文本中提取问题-答案对：

{{.Text}}

返回格式为JSON列表，例如：
[
  {"问题": "示例问题1?", "答案": "示例答案1。"},
  {"问题": "示例问题2?", "答案": "示例答案2。"}
]

只返回JSON格式的内容，不要添加其他解释。`

const defaultIsQuestion = `你是一个问题识别助手。请判断输入是否为提问句。

判断以下句子是否为提问句：

{{.Question}}

请回答：是 或 否`

const defaultIsCalculation = `你是一个问题分类助手。请判断输入是否为数学计算问题。

判断以下问题是否为数学计算问题：

{{.Question}}

请回答：是 或 否`

const defaultChitchat = `你是一个友好的聊天助手。请以轻松友好的方式回应用户的非问题性话语。

请友好地回应：{{.Question}}`

const defaultCalculationFallback = `你是一个数学计算助手。请解决用户提出的数学问题。

请计算：{{.Question}}`

const defaultRelevance = `你是一个相关性判断助手。请判断FAQ是否与用户问题相关。

用户问题：{{.Question}}

FAQ问题：{{.Candidate}}

请判断这个FAQ问题是否与用户问题相关。回答：是 或 否`

const defaultAnswer = `你是一个问答助手。请根据提供的参考信息回答用户问题。如果参考信息不足，请说明无法回答。

参考信息：
{{.Context}}

用户问题：{{.Question}}

请根据以上参考信息回答用户问题，回答要准确、完整、有条理。`
