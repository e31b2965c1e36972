package response

// 业务状态码
// 按错误类别分段：参数校验 / 不存在 / 权限 / 业务冲突 / 外部依赖
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists   = 10001
	ErrUserNotFound = 10002
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 员工/配送模块错误 110xx
	ErrStaffNotFound    = 11001
	ErrAccountDisabled  = 11002
	ErrRoleMismatch     = 11003
	ErrDeliveryNotFound = 11004
	ErrAdminExists      = 11005

	// 商品模块错误 150xx
	ErrProductNotFound = 15001

	// 订单模块错误 200xx
	ErrOrderNotFound  = 20001
	ErrInvalidStatus  = 20002
	ErrNotCancellable = 20003
	ErrNotAssigned    = 20004
	ErrAmountMismatch = 20005
	ErrPaymentDone    = 20006
	ErrNotCODOrder    = 20007

	// 支付模块错误 300xx
	ErrUnsupportedMethod = 30001
	ErrInvalidSignature  = 30002
	ErrGatewayFailed     = 30003
	ErrRefundNotAllowed  = 30004
	ErrAlreadyRefunded   = 30005

	// 钱包模块错误 400xx
	ErrInsufficientBalance = 40001
	ErrWalletNotFound      = 40002

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
