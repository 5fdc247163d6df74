package graph

// Schema is the GraphQL schema served at /graphql. Field and input names
// match the ones the web client already sends.
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

scalar Time

enum SelectionStatus {
	PENDING
	SELECTED
	REJECTED
}

enum ItemLogStatus {
	ALL
	PENDING
	RETURNED
	OVERDUE
}

type Organisation {
	id: ID!
	name: String!
	createdAt: Time!
}

type Member {
	id: ID!
	name: String!
	batch: Int!
	createdAt: Time!
}

type Department {
	id: ID!
	name: String!
	email: String!
	createdAt: Time!
}

type Event {
	id: ID!
	name: String!
	year: Int!
	createdAt: Time!
}

type Item {
	id: ID!
	name: String!
	quantityTotal: Int!
	quantityAvailable: Int!
	quantityIssued: Int!
	hasImage: Boolean!
	createdAt: Time!
}

type ItemLog {
	id: ID!
	itemId: ID!
	item: Item!
	eventId: ID!
	issuedBy: ID!
	departmentId: ID!
	phone: String
	quantityIssued: Int!
	expectedReturnDate: Time!
	returnedAt: Time
	returnedBy: ID
	overdue: Boolean!
	createdAt: Time!
}

type InventoryStats {
	items: Int!
	quantityTotal: Int!
	quantityAvailable: Int!
	quantityIssued: Int!
	outstandingLogs: Int!
	returnedLogs: Int!
	overdueLogs: Int!
}

type StockDrift {
	itemId: ID!
	itemName: String!
	stored: Int!
	derived: Int!
}

type InductionQuantity {
	id: ID!
	name: String!
	weightage: Float!
}

type InductionEvaluation {
	id: ID!
	qualityId: ID!
	quality: InductionQuantity!
	score: Float!
	createdAt: Time!
}

type InductionContestant {
	id: ID!
	name: String!
	email: String!
	finalScore: Float
	selectionStatus: SelectionStatus!
	evaluations: [InductionEvaluation!]!
}

type InductionSummary {
	total: Int!
	evaluated: Int!
	selected: Int!
	rejected: Int!
	pending: Int!
	averageScore: Float
	averageSelectedScore: Float
	ranking: [InductionContestant!]!
}

input CreateMemberInput {
	name: String!
	batch: Int!
}

input UpdateMemberInput {
	id: ID!
	name: String
	batch: Int
}

input CreateDepartmentInput {
	name: String!
	email: String!
}

input CreateEventInput {
	name: String!
	year: Int!
}

input CreateItemInput {
	name: String!
	quantityTotal: Int!
}

input UpdateItemInput {
	id: ID!
	name: String
	quantityTotal: Int
}

input CreateItemLogInput {
	itemId: ID!
	eventId: ID!
	issuedBy: ID!
	departmentId: ID!
	phone: String
	quantityIssued: Int!
	expectedReturnDate: Time!
}

input CreateInductionQuantityInput {
	name: String!
	weightage: Float!
}

input UpdateInductionQuantityInput {
	id: ID!
	name: String
	weightage: Float
}

input CreateInductionContestantInput {
	name: String!
	email: String!
}

input UpdateInductionContestantInput {
	id: ID!
	name: String
	email: String
}

input QualityScoreInput {
	qualityId: ID!
	score: Float!
}

input InductionEvaluationInput {
	contestantId: ID!
	totalScore: Float!
	qualities: [QualityScoreInput!]!
}

type Query {
	organisation: Organisation!
	checkOrganisationLogin: Organisation

	members: [Member!]!
	departments: [Department!]!
	events: [Event!]!
	event(id: ID!): Event!

	items: [Item!]!
	item(id: ID!): Item!
	itemLogs(eventId: ID, status: ItemLogStatus): [ItemLog!]!
	itemLog(id: ID!): ItemLog!
	inventoryStats(eventId: ID): InventoryStats!
	stockDrift: [StockDrift!]!

	inductionQuantities: [InductionQuantity!]!
	inductionContestants: [InductionContestant!]!
	getContestantEvaluationData(id: ID!): InductionContestant!
	inductionSummary(minScore: Float, maxScore: Float): InductionSummary!
}

type Mutation {
	createMember(createMemberInput: CreateMemberInput!): Member!
	updateMember(updateMemberInput: UpdateMemberInput!): Member!
	# The web client declares this variable as String!, so it stays String
	# rather than ID.
	removeMember(id: String!): Boolean!

	createDepartment(createDepartmentInput: CreateDepartmentInput!): Department!
	removeDepartment(id: ID!): Boolean!

	createEvent(createEventInput: CreateEventInput!): Event!
	removeEvent(id: ID!): Boolean!

	createItem(createItemInput: CreateItemInput!): Item!
	updateItem(updateItemInput: UpdateItemInput!): Item!
	removeItem(id: ID!): Boolean!
	createItemLog(createItemLogInput: CreateItemLogInput!): ItemLog!
	returnItemLog(id: ID!, returnedBy: ID): Boolean!

	createInductionQuantity(createInductionQuantityInput: CreateInductionQuantityInput!): InductionQuantity!
	updateInductionQuantity(updateInductionQuantityInput: UpdateInductionQuantityInput!): InductionQuantity!
	removeInductionQuantity(id: ID!): Boolean!

	createInductionContestant(createInductionContestantInput: CreateInductionContestantInput!): InductionContestant!
	updateInductionContestant(updateInductionContestantInput: UpdateInductionContestantInput!): InductionContestant!
	removeInductionContestant(id: ID!): Boolean!
	evaluateContestant(evaluateContestantInput: InductionEvaluationInput!): InductionContestant!
	setContestantSelection(ids: [ID!]!, status: SelectionStatus!): [InductionContestant!]!
}
`
