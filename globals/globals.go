package globals

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const CashierIDKey ContextKey = "cashierId"
const RegisterKey ContextKey = "register"
