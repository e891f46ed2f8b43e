package tracker

// GraphQL documents. The organization and user variants differ only in the
// root field; item and field fragments are shared.

const itemsFragment = `
    projectV2(number: $number) {
      id
      items(first: $first, after: $after) {
        nodes {
          id
          content {
            ... on Issue {
              number
              title
              state
              closedAt
              milestone {
                number
                title
                description
                dueOn
                state
                url
              }
              parent {
                number
              }
              subIssues(first: 50) {
                nodes {
                  number
                }
              }
              blockedBy(first: 50) {
                nodes {
                  number
                }
              }
              assignees(first: 10) {
                nodes {
                  login
                  name
                  avatarUrl
                }
              }
            }
          }
          fieldValues(first: 20) {
            nodes {
              ... on ProjectV2ItemFieldDateValue {
                date
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldSingleSelectValue {
                name
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldNumberValue {
                number
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
              ... on ProjectV2ItemFieldTextValue {
                text
                field {
                  ... on ProjectV2FieldCommon {
                    name
                  }
                }
              }
            }
          }
        }
        pageInfo {
          hasNextPage
          endCursor
        }
      }
    }`

const orgItemsQuery = `
  query($owner: String!, $number: Int!, $first: Int!, $after: String) {
    organization(login: $owner) {` + itemsFragment + `
    }
  }`

const userItemsQuery = `
  query($owner: String!, $number: Int!, $first: Int!, $after: String) {
    user(login: $owner) {` + itemsFragment + `
    }
  }`

const fieldsFragment = `
    projectV2(number: $number) {
      id
      fields(first: 50) {
        nodes {
          ... on ProjectV2FieldCommon {
            id
            name
            dataType
          }
        }
      }
    }`

const orgFieldsQuery = `
  query($owner: String!, $number: Int!) {
    organization(login: $owner) {` + fieldsFragment + `
    }
  }`

const userFieldsQuery = `
  query($owner: String!, $number: Int!) {
    user(login: $owner) {` + fieldsFragment + `
    }
  }`

const createDateFieldMutation = `
  mutation($projectId: ID!, $name: String!) {
    createProjectV2Field(input: {
      projectId: $projectId
      dataType: DATE
      name: $name
    }) {
      projectV2Field {
        ... on ProjectV2FieldCommon {
          id
        }
      }
    }
  }`

const createSelectFieldMutation = `
  mutation($projectId: ID!, $name: String!, $options: [ProjectV2SingleSelectFieldOptionInput!]!) {
    createProjectV2Field(input: {
      projectId: $projectId
      dataType: SINGLE_SELECT
      name: $name
      singleSelectOptions: $options
    }) {
      projectV2Field {
        ... on ProjectV2FieldCommon {
          id
        }
      }
    }
  }`

const updateDateFieldMutation = `
  mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $date: Date!) {
    updateProjectV2ItemFieldValue(input: {
      projectId: $projectId
      itemId: $itemId
      fieldId: $fieldId
      value: { date: $date }
    }) {
      projectV2Item {
        id
      }
    }
  }`
