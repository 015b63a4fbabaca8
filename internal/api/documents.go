package api

// GraphQL documents for the Todo API. Field selections mirror the
// Amplify codegen output for the Todo model.

const todoFields = `
		id
		name
		description
		createdAt
		updatedAt`

const listTodosQuery = `query ListTodos {
	listTodos {
		items {` + todoFields + `
		}
		nextToken
	}
}`

const createTodoMutation = `mutation CreateTodo($input: CreateTodoInput!) {
	createTodo(input: $input) {` + todoFields + `
	}
}`

const updateTodoMutation = `mutation UpdateTodo($input: UpdateTodoInput!) {
	updateTodo(input: $input) {` + todoFields + `
	}
}`

const deleteTodoMutation = `mutation DeleteTodo($input: DeleteTodoInput!) {
	deleteTodo(input: $input) {
		id
	}
}`

const addMutation = `mutation Add($number1: Float, $number2: Float) {
	add(number1: $number1, number2: $number2)
}`
